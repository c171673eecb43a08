package user

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/protimer/core"
)

func newValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, translator
}

type uniqueSvc struct {
	Service
	err error
}

func (s uniqueSvc) CheckUniqueness(context.Context, string, string) error { return s.err }

func TestNewUser_Validate(t *testing.T) {
	validate, translator := newValidator(t)

	tests := []struct {
		name    string
		data    NewUser
		wantErr map[string]string
	}{
		{
			name: "required fields",
			data: NewUser{},
			wantErr: map[string]string{
				"username":         "this field is required",
				"password":         "password must contain at least 8 characters",
				"password_confirm": "this field is required",
			},
		},
		{
			name:    "invalid username",
			data:    NewUser{Username: "no way", Password: "Str0ng!pwd", PasswordConfirm: "Str0ng!pwd"},
			wantErr: map[string]string{"username": "only alphanumeric characters and underscores are allowed"},
		},
		{
			name:    "whitespace in password",
			data:    NewUser{Username: "kim", Password: "str0ng pwd", PasswordConfirm: "str0ng pwd"},
			wantErr: map[string]string{"password": "password must not contain whitespace"},
		},
		{
			name:    "numeric password",
			data:    NewUser{Username: "kim", Password: "12345678", PasswordConfirm: "12345678"},
			wantErr: map[string]string{"password": "password cannot be entirely numeric"},
		},
		{
			name:    "password similar to username",
			data:    NewUser{Username: "studybuddy", Password: "StudyBuddy1", PasswordConfirm: "StudyBuddy1"},
			wantErr: map[string]string{"password": "password cannot be similar to user attributes"},
		},
		{
			name:    "passwords mismatch",
			data:    NewUser{Username: "kim", Password: "Str0ng!pwd", PasswordConfirm: "nope"},
			wantErr: map[string]string{"password_confirm": "password_confirm must be equal to Password"},
		},
		{name: "valid", data: NewUser{Username: " Kim ", Email: "KIM@test.cd", Password: "Str0ng!pwd", PasswordConfirm: "Str0ng!pwd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data
			err := data.Validate(context.Background(), validate, uniqueSvc{})
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "kim", data.Username)
				assert.Equal(t, "kim@test.cd", data.Email)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "want validator.ValidationErrors, got %T", err)
			got := make(map[string]string, len(vErrs))
			for _, vErr := range vErrs {
				got[vErr.Field()] = vErr.Translate(translator)
			}
			assert.Equal(t, tt.wantErr, got)
		})
	}
}

func TestNewUser_ValidateUniqueness(t *testing.T) {
	validate, _ := newValidator(t)

	data := NewUser{Username: "kim", Password: "Str0ng!pwd", PasswordConfirm: "Str0ng!pwd"}
	err := data.Validate(context.Background(), validate, uniqueSvc{err: core.NewFieldValidationError("username", ErrUsernameExists.Error())})
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, []core.FieldError{{Field: "username", Error: ErrUsernameExists.Error()}}, vErr.Fields)
}
