package core

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ID is a server-assigned identifier. The backend may send it as a JSON string or number.
type ID string

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// RequireID fails validation for a blank id, before any call is made.
func RequireID(id ID) error {
	if strings.TrimSpace(id.String()) == "" {
		return NewValidationError(nil, FieldError{Field: "id", Error: requiredText})
	}
	return nil
}
