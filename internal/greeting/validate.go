package greeting

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// MaxInputRunes bounds each identity field.
const MaxInputRunes = 64

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		return f.Kind() == reflect.String && strings.TrimSpace(f.String()) != ""
	})
	return v
}

type input struct {
	Self      string `validate:"notblank,max=64"`
	Recipient string `validate:"notblank,max=64"`
}

// validateInput returns a KindValidation *Error, or nil when both fields are usable.
// The length limit counts the trimmed value.
func validateInput(self, recipient string) *Error {
	err := validate.Struct(input{Self: strings.TrimSpace(self), Recipient: strings.TrimSpace(recipient)})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Kind: KindValidation, Err: err}
	}
	blank := lo.ContainsBy(verrs, func(fe validator.FieldError) bool {
		return fe.Tag() == "notblank"
	})
	return &Error{Kind: KindValidation, TooLong: !blank, Err: err}
}
