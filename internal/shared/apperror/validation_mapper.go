package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var fieldCaser = cases.Title(language.English)

// humanField turns a json field name like start_date into "Start Date".
func humanField(s string) string {
	return fieldCaser.String(strings.ReplaceAll(s, "_", " "))
}

func describe(fe validator.FieldError) string {
	field := humanField(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "len":
		return fmt.Sprintf("%s must be %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "uuid", "uuid4":
		return field + " must be a UUID"
	default:
		return field + " is invalid"
	}
}

// MapValidationError turns the first validator failure into an AppError.
// Field names come from json tags once Init has run.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	}

	if errs[0].Tag() == "required" {
		return RequiredField(humanField(errs[0].Field()))
	}
	return InvalidField(humanField(errs[0].Field()))
}

// ValidationDetails lists every failed field keyed by its json name. Errors
// that are not validator failures (malformed JSON) yield a single "body" entry.
func ValidationDetails(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return map[string]string{"body": "request body is malformed"}
	}

	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		if _, seen := details[fe.Field()]; !seen {
			details[fe.Field()] = describe(fe)
		}
	}
	return details
}
