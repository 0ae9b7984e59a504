package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/session"
)

const loginPath = "/login"

var (
	errUnauthenticated = &core.ErrorDetail{Kind: core.ErrAPI, Status: http.StatusUnauthorized, Message: "user not authenticated"}
	errForbidden       = &core.ErrorDetail{Kind: core.ErrAPI, Status: http.StatusForbidden, Message: "permission denied"}
)

// resultError carries a failed handler result up to the error handler.
type resultError struct {
	detail *core.ErrorDetail
}

func (err *resultError) Error() string {
	if err.detail.Err != nil {
		return err.detail.Err.Error()
	}
	return err.detail.Message
}

func fail(detail *core.ErrorDetail) error {
	return &resultError{detail: detail}
}

// errorEnvelope is the error body. Redirect is only set when the session is gone.
type errorEnvelope struct {
	core.Result[any]
	Redirect string `json:"redirect,omitempty"`
}

func statusOf(detail *core.ErrorDetail) int {
	switch detail.Kind {
	case core.ErrAPI:
		if detail.Status >= 400 {
			return detail.Status
		}
	case core.ErrValidation:
		return http.StatusBadRequest
	case core.ErrTransport:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler rendering every failure as the error envelope.
// Only an unauthenticated failure redirects to the login page and drops the browser session.
func newAppHTTPErrorHandler(logger core.Logger, sessions *session.Registry, secureCookie bool) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var detail *core.ErrorDetail

		var resErr *resultError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &resErr):
			detail = resErr.detail
		case errors.As(err, &httpErr):
			if httpErr.Internal != nil {
				if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
					httpErr = herr
				}
			}
			msg, ok := httpErr.Message.(string)
			if !ok {
				msg = http.StatusText(httpErr.Code)
			}
			detail = &core.ErrorDetail{Kind: core.ErrAPI, Status: httpErr.Code, Message: msg, Err: err}
		default:
			detail = core.Describe(err, nil)
		}

		code := statusOf(detail)
		if code >= http.StatusInternalServerError && logger != nil {
			var usr session.User
			if sess, ok := contextSession(ctx); ok {
				usr = sess.User
			}
			logger.Error(detail.Message, errors.Wrap(err, detail.Message), usr)
		}

		body := errorEnvelope{Result: core.Result[any]{Kind: core.KindError, Detail: detail}}
		if detail.Unauthenticated() {
			if token := requestToken(ctx); token != "" && sessions != nil {
				sessions.Delete(token)
			}
			clearSessionCookie(ctx, secureCookie)
			body.Redirect = loginPath
		}
		if ctx.Echo().Debug && detail.Err != nil {
			body.Detail = &core.ErrorDetail{
				Kind: detail.Kind, Status: detail.Status, Fields: detail.Fields,
				Message: detail.Message + ": " + detail.Err.Error(),
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
