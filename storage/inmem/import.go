package inmemdb

import (
	"encoding/csv"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
)

var errCSVOnly = &core.APIError{
	Status:  http.StatusUnprocessableEntity,
	Message: "the mock backend only imports .csv files",
	Fields:  map[string]string{"file": "the mock backend only imports .csv files"},
}

type csvRow struct {
	line   int
	values map[string]string
}

func (r csvRow) get(col string) string { return strings.TrimSpace(r.values[col]) }

// readCSV reads a spreadsheet with a header line. Column names are matched case-insensitively.
func readCSV(filename string, content io.Reader, required ...string) ([]csvRow, error) {
	if lowerExt(filename) != ".csv" {
		return nil, errCSVOnly
	}
	r := csv.NewReader(content)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, badFile(err)
	}
	cols := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, h := range header {
		cols[i] = core.CleanString(h, true /* lower */)
		present[cols[i]] = true
	}
	for _, col := range required {
		if !present[col] {
			return nil, badFile(errors.Errorf("missing column %q", col))
		}
	}

	var rows []csvRow
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, badFile(err)
		}
		row := csvRow{line: line, values: make(map[string]string, len(cols))}
		for i, v := range rec {
			if i < len(cols) {
				row.values[cols[i]] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func badFile(err error) error {
	msg := "invalid spreadsheet: " + err.Error()
	return &core.APIError{Status: http.StatusUnprocessableEntity, Message: msg, Fields: map[string]string{"file": msg}}
}
