package validation

import (
	"fmt"
	"strings"
)

// Violation is one failed rule, addressed to a field path such as ["billingAddress","zipCode"]
type Violation struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Field returns the dotted path
func (v Violation) Field() string {
	return strings.Join(v.Path, ".")
}

// ValidationError carries every violation found in a submission
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	switch len(e.Violations) {
	case 0:
		return "validation failed"
	case 1:
		return fmt.Sprintf("validation failed: %s: %s", e.Violations[0].Field(), e.Violations[0].Message)
	default:
		return fmt.Sprintf("validation failed: %s: %s (and %d more)",
			e.Violations[0].Field(), e.Violations[0].Message, len(e.Violations)-1)
	}
}

// Has reports whether any violation targets the dotted path
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field() == field {
			return true
		}
	}
	return false
}

// Messages returns the messages reported for a dotted path
func (e *ValidationError) Messages(field string) []string {
	var out []string
	for _, v := range e.Violations {
		if v.Field() == field {
			out = append(out, v.Message)
		}
	}
	return out
}
