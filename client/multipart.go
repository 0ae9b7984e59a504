package client

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type (
	// File is one file part of a multipart body.
	File struct {
		Field   string
		Name    string
		Content io.Reader
	}

	// Multipart is a multipart/form-data body.
	Multipart struct {
		Fields map[string]string
		Files  []File
	}
)

// NewFileForm returns a single-file multipart body, the shape of the bulk import endpoints.
func NewFileForm(field, name string, content io.Reader) *Multipart {
	return &Multipart{Files: []File{{Field: field, Name: name, Content: content}}}
}

// OpenFileForm reads path into a single-file multipart body.
func OpenFileForm(field, path string) (*Multipart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return NewFileForm(field, filepath.Base(path), bytes.NewReader(data)), nil
}

func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, val := range m.Fields {
		if err := w.WriteField(key, val); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
