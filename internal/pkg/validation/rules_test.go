package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringValidation(t *testing.T) {
	assert.False(t, NewStringValidation("").Validate())
	assert.True(t, NewStringValidation("").WithRequired(false).WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("ab").WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("abcd").WithMaxLength(3).Validate())
	// four runes, eight bytes
	assert.True(t, NewStringValidation("éééé").WithMaxLength(4).InRunes().Validate())
	assert.False(t, NewStringValidation("éééé").WithMaxLength(4).Validate())
}

func TestNumericValidation(t *testing.T) {
	assert.True(t, NewNumericValidation(0).WithMin(0).WithMax(MaxHoursPerWeek).Validate())
	assert.True(t, NewNumericValidation(80).WithMin(0).WithMax(MaxHoursPerWeek).Validate())
	assert.False(t, NewNumericValidation(-1).WithMin(0).Validate())
	assert.False(t, NewNumericValidation(81).WithMax(MaxHoursPerWeek).Validate())
	assert.True(t, NewNumericValidation(-5).Validate())
}

func TestCourseCodePattern(t *testing.T) {
	for _, code := range []string{"CS 101", "EECS 6.006", "MATH-221", "ECE 20"} {
		assert.True(t, CompiledPatterns.CourseCode.MatchString(code), code)
	}
	for _, code := range []string{"cs 101", " CS", "CS_101", ""} {
		assert.False(t, CompiledPatterns.CourseCode.MatchString(code), code)
	}
}

func TestPasswordRules(t *testing.T) {
	assert.True(t, PasswordLengthOK("abcdefg1"))
	assert.False(t, PasswordLengthOK("abc1"))
	assert.False(t, PasswordLengthOK(strings.Repeat("a1", 37)))
	assert.True(t, PasswordHasLetterAndDigit("abcdefg1"))
	assert.False(t, PasswordHasLetterAndDigit("abcdefgh"))
	assert.False(t, PasswordHasLetterAndDigit("12345678"))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Ada"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName(strings.Repeat("x", NameMaxLength+1)))
}
