// Package validation holds the shared struct validator and the custom rules
// used by configuration and user intents.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"tableflip.dev/cram/pkg/outline"
	"tableflip.dev/cram/pkg/timeutil"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("month", validateMonth); err != nil {
		panic(fmt.Sprintf("failed to register month validator: %v", err))
	}
	if err := Validate.RegisterValidation("clock", validateClock); err != nil {
		panic(fmt.Sprintf("failed to register clock validator: %v", err))
	}
	if err := Validate.RegisterValidation("daylabel", validateDayLabel); err != nil {
		panic(fmt.Sprintf("failed to register daylabel validator: %v", err))
	}
}

// validateMonth accepts full English month names in any case.
func validateMonth(fl validator.FieldLevel) bool {
	_, ok := outline.ParseMonth(fl.Field().String())
	return ok
}

// validateClock accepts "15:04" and "3:04 PM".
func validateClock(fl validator.FieldLevel) bool {
	_, err := timeutil.ParseClock(fl.Field().String())
	return err == nil
}

// validateDayLabel accepts "<day> <Month>".
func validateDayLabel(fl validator.FieldLevel) bool {
	_, ok := NormalizeDay(fl.Field().String())
	return ok
}

// NormalizeDay canonicalises a day label such as "18 january" to
// "18 January".
func NormalizeDay(s string) (string, bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return "", false
	}
	label, _, ok := outline.ParseHeader(fields[0] + " " + fields[1] + " (0 items)")
	return label, ok
}

// Struct validates v and flattens validator errors into one readable error.
func Struct(v interface{}) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "month":
		return fmt.Sprintf("%s: %q is not a month name", field, fe.Value())
	case "clock":
		return fmt.Sprintf("%s: %q is not a time, want HH:MM or h:MM AM", field, fe.Value())
	case "daylabel":
		return fmt.Sprintf("%s: %q is not a day, want e.g. \"18 January\"", field, fe.Value())
	case "min", "max", "oneof":
		return fmt.Sprintf("%s: %v fails %s=%s", field, fe.Value(), fe.Tag(), fe.Param())
	default:
		return fe.Error()
	}
}
