package scalars

import (
	"fmt"
	"regexp"
)

// Validator checks string values against a pattern. Disabled validators
// accept everything, so the schema shape stays the same either way.
type Validator struct {
	kind    string // used in the error message, e.g. "email"
	enabled bool
	regex   *regexp.Regexp
}

func NewValidator(kind, pattern string, enabled bool) (*Validator, error) {
	if !enabled {
		return &Validator{kind: kind}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("scalars: bad %s pattern: %w", kind, err)
	}
	return &Validator{kind: kind, enabled: true, regex: re}, nil
}

// Validate returns the value unchanged, or an error naming the field kind.
func (v *Validator) Validate(value string) (string, error) {
	if !v.enabled || v.regex.MatchString(value) {
		return value, nil
	}
	return "", fmt.Errorf("Invalid %s!", v.kind)
}
