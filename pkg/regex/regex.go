package regex

import (
	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// Pattern wraps a compiled expression.
type Pattern struct {
	Expression *regexp2.Regexp
}

// Compile compiles the given pattern, case-insensitively.
func Compile(pattern string) (*Pattern, error) {
	expression, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	if err != nil {
		return nil, errors.Wrapf(err, "failed compiling pattern: %q", pattern)
	}

	return &Pattern{Expression: expression}, nil
}

// Check returns true if the value matches the pattern.
func Check(value string, pattern *Pattern) (bool, error) {
	if pattern == nil {
		return false, errors.New("pattern must be provided")
	}

	match, err := pattern.Expression.MatchString(value)
	if err != nil {
		return false, errors.Wrapf(err, "failed matching value against pattern: %q", pattern.Expression.String())
	}

	return match, nil
}

// CheckAny returns true if the value matches at least one pattern.
func CheckAny(value string, patterns []*Pattern) (bool, error) {
	for _, pattern := range patterns {
		match, err := Check(value, pattern)
		if err != nil {
			return false, err
		}

		if match {
			return true, nil
		}
	}

	return false, nil
}

// CheckAll returns true if the value matches every pattern.
func CheckAll(value string, patterns []*Pattern) (bool, error) {
	for _, pattern := range patterns {
		match, err := Check(value, pattern)
		if err != nil {
			return false, err
		}

		if !match {
			return false, nil
		}
	}

	return len(patterns) > 0, nil
}
