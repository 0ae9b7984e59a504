package echoapi

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
)

var errFileRequired = core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a file is required"})

// bindFilter fills a list filter from the query string. "search" is accepted as an alias of "q".
func bindFilter(ctx echo.Context, qf interface{}, search *string) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, qf); err != nil {
		return errors.Wrap(err, "binding query filter")
	}
	if *search == "" {
		*search = ctx.QueryParam("search")
	}
	return nil
}

func pathID(ctx echo.Context) core.ID {
	return core.ID(ctx.Param("id"))
}

// respond writes an ok result with code; a failed result goes to the error handler.
func respond[T any](ctx echo.Context, code int, res core.Result[T]) error {
	if !res.OK {
		return fail(res.Detail)
	}
	return ctx.JSON(code, res)
}

// uploaded opens the "file" part of a multipart request.
func uploaded(ctx echo.Context) (*multipart.FileHeader, multipart.File, error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, fail(core.Describe(errFileRequired, nil))
		}
		return nil, nil, errors.Wrap(err, "reading uploaded file")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening uploaded file")
	}
	return fh, f, nil
}
