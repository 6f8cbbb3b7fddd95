package session

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// checkInput runs field-level validation before any network call, so a
// malformed payload never reaches the backend.
func checkInput(input any) *pkgerrors.Error {
	if err := validate.Struct(input); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		first := ""
		for _, fieldErr := range errs {
			message := fmt.Sprintf("%s %s", fieldErr.Field(), validationMessage(fieldErr))
			details[fieldErr.Field()] = validationMessage(fieldErr)
			if first == "" {
				first = message
			}
		}
		return pkgerrors.New(pkgerrors.CodeValidation, first).WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid url"
	}
	return "is invalid"
}
