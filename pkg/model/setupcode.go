package model

import (
	"fmt"
	"strings"
)

// SetupCodeLength is the number of digits in a HomeKit setup code.
const SetupCodeLength = 8

// FilterDigits returns only the decimal digits of s, in order.
func FilterDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeSetupCode filters s to digits and truncates to SetupCodeLength.
func NormalizeSetupCode(s string) string {
	digits := FilterDigits(s)
	if len(digits) > SetupCodeLength {
		digits = digits[:SetupCodeLength]
	}
	return digits
}

// ValidateSetupCode checks that s is exactly SetupCodeLength digits.
func ValidateSetupCode(s string) error {
	if len(s) != SetupCodeLength {
		return fmt.Errorf("%w: must be %d digits", ErrInvalidSetupCode, SetupCodeLength)
	}
	if FilterDigits(s) != s {
		return fmt.Errorf("%w: contains non-digit characters", ErrInvalidSetupCode)
	}
	return nil
}

// FormatSetupCode formats an 8-digit code in the XXX-XX-XXX grouping
// printed on accessory labels. Codes of any other length are returned
// unchanged.
func FormatSetupCode(code string) string {
	if len(code) != SetupCodeLength {
		return code
	}
	return code[0:3] + "-" + code[3:5] + "-" + code[5:8]
}
