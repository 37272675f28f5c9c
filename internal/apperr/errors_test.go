package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DjordjeVuckovic/rerank-eval/internal/apperr"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("labels must be 0 or 1")

	assert.Equal(t, "labels must be 0 or 1", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("strconv: bad digit")
	err := apperr.NewValidationWrap("invalid qrels grade", inner)

	assert.Equal(t, "invalid qrels grade: strconv: bad digit", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load dataset: %w", fmt.Errorf("parse: %w", apperr.NewValidation("dataset has no queries")))

	var ve *apperr.ValidationError
	require.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "dataset has no queries", ve.Message)

	var none *apperr.ValidationError
	assert.False(t, errors.As(fmt.Errorf("rerank: %w", errors.New("connection refused")), &none))
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", fmt.Errorf("evaluate: %w", apperr.NewValidation("unknown metric")), http.StatusBadRequest, "unknown metric"},
		{"http error", echo.NewHTTPError(http.StatusNotFound, "not found"), http.StatusNotFound, "not found"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			apperr.GlobalErrorHandler()(tt.err, c)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
