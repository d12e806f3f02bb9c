// Package validation holds the field rules shared by services.
package validation

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Validation rule limits
var (
	// Password length is counted in bytes since bcrypt truncates at 72
	PasswordMinLength = 8
	PasswordMaxLength = 72

	NameMaxLength        = 100
	CourseCodeMaxLength  = 20
	CourseTitleMaxLength = 200

	MaxHoursPerWeek = 80

	// CourseCodePattern matches a normalized code such as "CS 101" or "EECS 6.006"
	CourseCodePattern = `^[A-Z0-9][A-Z0-9&./\- ]*$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	CourseCode *regexp.Regexp
}{
	CourseCode: regexp.MustCompile(CourseCodePattern),
}

// StringValidation checks a string field
type StringValidation struct {
	Value     string
	MinLen    int
	MaxLen    int
	Required  bool
	Pattern   *regexp.Regexp
	countRune bool
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// InRunes measures length in characters instead of bytes
func (v *StringValidation) InRunes() *StringValidation {
	v.countRune = true
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	n := len(v.Value)
	if v.countRune {
		n = utf8.RuneCountInString(v.Value)
	}
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// NumericValidation checks an integer against inclusive bounds
type NumericValidation struct {
	Value int
	Min   *int
	Max   *int
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(value int) *NumericValidation {
	return &NumericValidation{Value: value}
}

// WithMin sets minimum value
func (v *NumericValidation) WithMin(min int) *NumericValidation {
	v.Min = &min
	return v
}

// WithMax sets maximum value
func (v *NumericValidation) WithMax(max int) *NumericValidation {
	v.Max = &max
	return v
}

// Validate performs validation
func (v *NumericValidation) Validate() bool {
	if v.Min != nil && v.Value < *v.Min {
		return false
	}
	if v.Max != nil && v.Value > *v.Max {
		return false
	}
	return true
}

// ValidName reports whether a trimmed person name is present and not too long
func ValidName(name string) bool {
	return NewStringValidation(name).WithMaxLength(NameMaxLength).InRunes().Validate()
}

// PasswordLengthOK reports whether password fits the stored-hash length limits
func PasswordLengthOK(password string) bool {
	return NewStringValidation(password).
		WithMinLength(PasswordMinLength).
		WithMaxLength(PasswordMaxLength).
		Validate()
}

// PasswordHasLetterAndDigit reports whether password mixes letters and digits
func PasswordHasLetterAndDigit(password string) bool {
	hasLetter, hasDigit := false, false
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
