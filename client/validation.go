package client

import (
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/task"
)

// NewValidator returns the validator the API validates requests with.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	task.InitValidators(validate, translator)
	return validate, translator
}

// ValidationError converts a validation failure into an *Error shaped like the API's 400 responses.
// Other errors are returned unchanged.
func ValidationError(err error, translator ut.Translator) error {
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		flds := make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			flds[vErr.Field()] = vErr.Translate(translator)
		}
		return &Error{Status: http.StatusBadRequest, Fields: flds}
	case *core.ValidationError:
		if origErr.Fields == nil {
			return &Error{Status: http.StatusBadRequest, Message: origErr.Error()}
		}
		flds := make(map[string]string, len(origErr.Fields))
		for _, fErr := range origErr.Fields {
			flds[fErr.Field] = fErr.Error
		}
		return &Error{Status: http.StatusBadRequest, Fields: flds}
	}
	return err
}
