package task

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/protimer/core"
)

var (
	priorityTag  = "priority"
	priorityText = "priority must be one of high, medium, low"
)

// InitValidators registers the task validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(priorityTag, priorityValidation)
	core.RegisterCustomTranslation(validate, translator, priorityTag, priorityText)
}

func priorityValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}
