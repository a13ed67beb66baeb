// Package password enforces the composition rules a candidate password must
// satisfy before an account can be created or a credential rotated.
package password

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	RuleMinLength = "min_length"
	RuleUppercase = "uppercase"
	RuleLowercase = "lowercase"
	RuleDigit     = "digit"
	RuleSpecial   = "special"
)

const specialChars = "!@#$%^&*"

// Result is the outcome of validating a single candidate password. When OK is
// false, Rule and Message identify the first rule that failed.
type Result struct {
	OK      bool
	Rule    string
	Message string
}

type Policy struct {
	MinLength int
}

func NewPolicy(minLength int) Policy {
	if minLength < 1 {
		minLength = 8
	}
	return Policy{MinLength: minLength}
}

// Validate evaluates the rules in order and stops at the first failure.
func (p Policy) Validate(candidate string) Result {
	if len(candidate) < p.MinLength {
		return Result{
			Rule:    RuleMinLength,
			Message: fmt.Sprintf("password must be at least %d characters", p.MinLength),
		}
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range candidate {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return Result{Rule: RuleUppercase, Message: "password must contain at least one uppercase letter"}
	}
	if !hasLower {
		return Result{Rule: RuleLowercase, Message: "password must contain at least one lowercase letter"}
	}
	if !hasDigit {
		return Result{Rule: RuleDigit, Message: "password must contain at least one number"}
	}
	if !hasSpecial {
		return Result{Rule: RuleSpecial, Message: fmt.Sprintf("password must contain at least one special character (%s)", specialChars)}
	}

	return Result{OK: true}
}
