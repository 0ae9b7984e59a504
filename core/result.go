package core

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
)

type (
	ResultKind string
	ErrorKind  string
)

const (
	KindOK    ResultKind = "ok"
	KindError ResultKind = "error"

	ErrValidation ErrorKind = "validation"
	ErrAPI        ErrorKind = "api"
	ErrTransport  ErrorKind = "transport"
	ErrUnexpected ErrorKind = "unexpected"
)

const genericErrorMessage = "something went wrong, please try again"

// ErrorDetail describes why a handler call failed.
// Message is always human-readable.
type ErrorDetail struct {
	Kind    ErrorKind         `json:"kind"`
	Status  int               `json:"status,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

// Unauthenticated reports whether the failure means the session is no longer valid.
func (d *ErrorDetail) Unauthenticated() bool {
	return d != nil && d.Kind == ErrAPI && d.Status == http.StatusUnauthorized
}

// Result is the envelope every handler returns to views: either ok with Data, or error with Detail.
type Result[T any] struct {
	Kind   ResultKind   `json:"kind"`
	OK     bool         `json:"ok"`
	Data   T            `json:"data,omitempty"`
	Detail *ErrorDetail `json:"errors,omitempty"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Kind: KindOK, OK: true, Data: data}
}

// Fail classifies err into the error envelope.
func Fail[T any](err error, translator ut.Translator) Result[T] {
	return Result[T]{Kind: KindError, Detail: Describe(err, translator)}
}

// Err returns the original error of a failed result, nil when ok.
func (r Result[T]) Err() error {
	if r.OK || r.Detail == nil {
		return nil
	}
	return r.Detail.Err
}

// Describe maps any error onto the error taxonomy: validation, api, transport, unexpected.
func Describe(err error, translator ut.Translator) *ErrorDetail {
	if err == nil {
		return nil
	}
	if flds := FieldErrors(err, translator); flds != nil {
		msg := "please correct the highlighted fields"
		if vErr, ok := errors.Cause(err).(*ValidationError); ok && vErr.Err != nil {
			msg = vErr.Err.Error()
		}
		return &ErrorDetail{Kind: ErrValidation, Status: http.StatusBadRequest, Message: msg, Fields: flds, Err: err}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &ErrorDetail{Kind: ErrAPI, Status: apiErr.Status, Message: apiErr.Message, Fields: apiErr.Fields, Err: err}
	}
	var trErr *TransportError
	if errors.As(err, &trErr) {
		return &ErrorDetail{Kind: ErrTransport, Message: "could not reach the server", Err: err}
	}
	return &ErrorDetail{Kind: ErrUnexpected, Message: genericErrorMessage, Err: err}
}

// ResultOf folds a (value, error) pair into the envelope.
func ResultOf[T any](data T, err error, translator ut.Translator) Result[T] {
	if err != nil {
		return Fail[T](err, translator)
	}
	return Ok(data)
}
