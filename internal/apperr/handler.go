package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Error string `json:"error"`
	Title string `json:"title,omitempty"`
}

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := toResponse(err)
		if code >= http.StatusInternalServerError {
			slog.Error("Unhandled error", "method", c.Request().Method, "path", c.Path(), "error", err)
		}
		_ = c.JSON(code, body)
	}
}

func toResponse(err error) (int, errorBody) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorBody{Error: ve.Message, Title: "validation error"}
	}

	var nf *NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound, errorBody{Error: nf.Error(), Title: "not found"}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorBody{Error: fmt.Sprintf("%v", he.Message)}
	}

	return http.StatusInternalServerError, errorBody{Error: "internal server error"}
}
