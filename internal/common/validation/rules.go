// Package validation holds request validation rules shared by the API and service layers.
package validation

import (
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxEmailLength = 254

// EmailRules validate a participant identifier. Any non-empty string is
// accepted so seeded rosters holding plain names stay reachable.
var EmailRules = []validation.Rule{
	validation.Required.Error("email is required"),
	validation.Length(1, MaxEmailLength),
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// NormalizeEmail trims surrounding whitespace. Case is preserved.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// ToResult flattens an ozzo error into a ValidationResult with stable field order.
func ToResult(err error) *ValidationResult {
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Message: err.Error(), Code: codeOf(err)}},
		}
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]ValidationError, 0, len(fields))
	for _, field := range fields {
		fieldErr := errs[field]
		out = append(out, ValidationError{
			Field:   field,
			Message: fieldErr.Error(),
			Code:    codeOf(fieldErr),
		})
	}
	return &ValidationResult{Valid: false, Errors: out}
}

// Summary renders a ValidationResult as "field: message; field: message".
func (r *ValidationResult) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if e.Field == "" {
			parts = append(parts, e.Message)
			continue
		}
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}

func codeOf(err error) string {
	if verr, ok := err.(validation.Error); ok {
		return strings.ToUpper(verr.Code())
	}
	return ""
}
