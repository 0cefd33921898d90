// internal/pkg/validation/validation.go
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/your-org/burger-pizza/internal/domain/order"
)

// MissingFieldsError lists the contact fields left blank
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RequireContact reports the contact fields that are empty or blank. Formats
// are not checked.
func RequireContact(contact order.ContactInfo) error {
	trimmed := order.ContactInfo{
		Name:    strings.TrimSpace(contact.Name),
		Email:   strings.TrimSpace(contact.Email),
		Mobile:  strings.TrimSpace(contact.Mobile),
		Address: strings.TrimSpace(contact.Address),
	}

	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	missing := &MissingFieldsError{}
	for _, fe := range verrs {
		missing.Fields = append(missing.Fields, fe.Field())
	}
	return missing
}

// FormatValidationError maps request binding errors to per-field messages
func FormatValidationError(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["request"] = err.Error()
		return out
	}

	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "gte", "lte":
			out[field] = fmt.Sprintf("%s is out of range", field)
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", field, fe.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}
