package model

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared struct validator.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("cents", validateCents)
	})
	return validate
}

// Validate checks struct tags on v and converts failures into ValidationErrors.
func Validate(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var out ValidationErrors
	for _, fe := range fieldErrs {
		out.Add(lowerFirst(fe.Field()), describeTag(fe))
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must have at least " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "cents":
		return "must have at most two decimal places"
	}
	return "is invalid"
}

// validateCents accepts amounts that every store keeps exactly.
func validateCents(fl validator.FieldLevel) bool {
	amount := decimal.NewFromFloat(fl.Field().Float())
	return amount.Equal(amount.Round(2))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// SanitizeText trims surrounding whitespace and strips angle brackets.
func SanitizeText(s string) string {
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(s))
}

// SanitizeList applies SanitizeText to every entry and drops entries that end up empty.
func SanitizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if clean := SanitizeText(v); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
