package echoapi

import (
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/studygroup"
	"github.com/trezcool/protimer/core/task"
)

func Test_errorStatus(t *testing.T) {
	type named struct {
		Name string `validate:"required"`
	}
	verr := validator.New().Struct(named{})
	require.IsType(t, validator.ValidationErrors{}, verr)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation errors", err: verr, want: http.StatusBadRequest},
		{name: "wrapped validation errors", err: errors.Wrap(verr, "creating group"), want: http.StatusBadRequest},
		{name: "field validation error", err: core.NewFieldValidationError("date", "bad date"), want: http.StatusBadRequest},
		{name: "not found", err: task.ErrNotFound, want: http.StatusNotFound},
		{name: "wrapped forbidden", err: errors.Wrap(studygroup.ErrNotCreator, "updating group"), want: http.StatusForbidden},
		{name: "http error", err: errTooManyRequests, want: http.StatusTooManyRequests},
		{name: "missing jwt", err: middleware.ErrJWTMissing, want: http.StatusUnauthorized},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, errorStatus(tt.err))
			})
		})
	}
}

func Test_domainStatus(t *testing.T) {
	_, ok := domainStatus(validator.ValidationErrors{})
	assert.False(t, ok)
	_, ok = domainStatus(nil)
	assert.False(t, ok)

	code, ok := domainStatus(studygroup.ErrPrivate)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, code)

	_, ok = domainStatus(echo.ErrNotFound)
	assert.False(t, ok)
}
