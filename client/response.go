package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
)

var errNotJSON = errors.New("response body is not JSON")

// Response is a 2xx answer. Exactly one of NoContent, Body and Raw describes the payload.
type Response struct {
	Status    int
	Header    http.Header
	NoContent bool
	Body      json.RawMessage // set when the body is valid JSON
	Raw       string          // set when the body could not be parsed as JSON
}

// RawText is what Decode yields for a body that is not JSON.
type RawText struct {
	Text string `json:"raw"`
}

func readResponse(httpResp *http.Response) (*Response, error) {
	resp := &Response{Status: httpResp.StatusCode, Header: httpResp.Header}
	if httpResp.StatusCode == http.StatusNoContent {
		resp.NoContent = true
		return resp, nil
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		resp.NoContent = true
	case json.Valid(data):
		resp.Body = data
	default:
		resp.Raw = string(data)
	}
	return resp, nil
}

// Decode unmarshals the JSON body into out. It is a no-op for empty answers.
// A non-JSON body decodes into *RawText; any other target gets an error.
func (r *Response) Decode(out interface{}) error {
	if out == nil || r.NoContent {
		return nil
	}
	if r.Body == nil {
		if rt, ok := out.(*RawText); ok {
			rt.Text = r.Raw
			return nil
		}
		return errNotJSON
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}

// Value returns the decoded payload: nil for no content, a RawText wrapper for non-JSON bodies,
// the generic JSON value otherwise.
func (r *Response) Value() (interface{}, error) {
	switch {
	case r.NoContent:
		return nil, nil
	case r.Body == nil:
		return RawText{Text: r.Raw}, nil
	}
	var v interface{}
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, errors.Wrap(err, "decoding response")
	}
	return v, nil
}

type errorBody struct {
	Error   interface{}     `json:"error"`
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
	Errors  json.RawMessage `json:"errors"`
}

func (r *Response) apiError() *core.APIError {
	apiErr := &core.APIError{Status: r.Status, Body: r.Body, Raw: r.Raw}
	if r.Body != nil {
		var body errorBody
		if err := json.Unmarshal(r.Body, &body); err == nil {
			if msg, ok := body.Error.(string); ok {
				apiErr.Message = msg
			}
			if apiErr.Message == "" {
				apiErr.Message = body.Message
			}
			if apiErr.Message == "" {
				apiErr.Message = body.Detail
			}
			if len(body.Errors) > 0 {
				var flds map[string]string
				if err := json.Unmarshal(body.Errors, &flds); err == nil {
					apiErr.Fields = flds
				}
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(r.Status)
	}
	return apiErr
}
