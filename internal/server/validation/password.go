package validation

import (
	"fmt"
	"unicode"
)

const MinPasswordLength = 8

type passwordClasses struct {
	upper, lower, digit, special bool
}

func classify(pw string) passwordClasses {
	var c passwordClasses
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			c.upper = true
		case r >= 'a' && r <= 'z':
			c.lower = true
		case r >= '0' && r <= '9':
			c.digit = true
		default:
			c.special = true
		}
	}
	return c
}

func (c passwordClasses) count() int {
	n := 0
	for _, ok := range []bool{c.upper, c.lower, c.digit, c.special} {
		if ok {
			n++
		}
	}
	return n
}

func basicProblems(pw string, c passwordClasses) []string {
	var out []string
	if len([]rune(pw)) < MinPasswordLength {
		out = append(out, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if !c.upper {
		out = append(out, "Password must contain at least one uppercase letter")
	}
	if !c.lower {
		out = append(out, "Password must contain at least one lowercase letter")
	}
	if !c.digit {
		out = append(out, "Password must contain at least one number")
	}
	return out
}

// StrongPasswordProblems applies the sign-up policy: upper, lower and digit
// are mandatory and at least three of the four classes must be present.
func StrongPasswordProblems(pw string) []string {
	c := classify(pw)
	out := basicProblems(pw, c)
	if c.count() < 3 {
		out = append(out, "Password must meet at least 3 of these requirements: uppercase letter, lowercase letter, number, or special character")
	}
	return out
}

// ResetPasswordProblems applies the reset policy, which also requires a
// special character.
func ResetPasswordProblems(pw string) []string {
	c := classify(pw)
	out := basicProblems(pw, c)
	if !c.special {
		out = append(out, "Password must contain at least one special character")
	}
	return out
}

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}
