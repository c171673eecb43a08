package client

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/task"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "status only", err: &Error{Status: 500}, want: "request failed with status 500"},
		{name: "message", err: &Error{Status: 403, Message: "permission denied"}, want: "permission denied"},
		{
			name: "fields sorted",
			err:  &Error{Status: 400, Fields: map[string]string{"name": "name is required", "date": "bad date"}},
			want: "date: bad date; name: name is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestValidationError(t *testing.T) {
	validate, translator := NewValidator()

	nt := task.NewTask{Date: "2024-03-10", Priority: "urgent"}
	err := ValidationError(nt.Validate(validate), translator)
	var cErr *Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, http.StatusBadRequest, cErr.Status)
	assert.Contains(t, cErr.Fields, "name")
	assert.Equal(t, "priority must be one of high, medium, low", cErr.Fields["priority"])

	err = ValidationError(core.NewFieldValidationError("date", "cannot track a habit in the future"), translator)
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, map[string]string{"date": "cannot track a habit in the future"}, cErr.Fields)

	err = ValidationError(core.NewValidationError(ErrNotFound), translator)
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "not found", cErr.Message)

	assert.Equal(t, ErrNotFound, ValidationError(ErrNotFound, translator))
}
