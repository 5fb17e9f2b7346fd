package user

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// emailPart matches one run of characters that are neither '@' nor any
// Unicode space, including NBSP, U+3000 and the BOM.
const emailPart = `[^\s\x{000B}\p{Z}\x{0085}\x{FEFF}@]+`

// emailPattern accepts local@domain.tld where no part contains whitespace or '@'.
var emailPattern = regexp.MustCompile(`^` + emailPart + `@` + emailPart + `\.` + emailPart + `$`)

// candidate is the shape checked by ValidateUser. Field order is the order
// in which violations are reported.
type candidate struct {
	Name  string `validate:"nonblank"`
	Email string `validate:"nonblank,email_shape"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateUser checks a name/email pair and returns every violated rule as a
// human readable message. An empty result means the pair is acceptable.
// Each field reports at most one message.
func ValidateUser(name, email string) []string {
	err := validate.Struct(candidate{Name: name, Email: email})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		messages = append(messages, formatFieldError(e))
	}
	return messages
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "nonblank":
		return fmt.Sprintf("%s is required", e.Field())
	case "email_shape":
		return fmt.Sprintf("%s format is invalid", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
