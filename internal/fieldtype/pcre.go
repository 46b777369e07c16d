package fieldtype

import (
	"time"

	"github.com/dlclark/regexp2"
)

const pcreMatchTimeout = 250 * time.Millisecond

// PCRE is the check/search/replace triplet of string and text fields.
// Check constrains values; Search and Replace only transform values for display.
type PCRE struct {
	Check   string `json:"check,omitempty"`
	Search  string `json:"search,omitempty"`
	Replace string `json:"replace,omitempty"`
}

// IsZero reports whether no pattern is configured
func (p PCRE) IsZero() bool {
	return p.Check == "" && p.Search == "" && p.Replace == ""
}

func compilePCRE(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = pcreMatchTimeout
	return re, nil
}

func (p PCRE) validate() error {
	parts := []struct {
		param string
		value string
	}{
		{"pcre.check", p.Check},
		{"pcre.search", p.Search},
		{"pcre.replace", p.Replace},
	}
	for _, part := range parts {
		if len(part.value) > PCREMaxLength {
			return &ConfigError{
				Code:    CodeRegexTooLong,
				Param:   part.param,
				Message: "pattern must not be longer than 500 characters",
			}
		}
	}
	for _, part := range parts[:2] {
		if part.value == "" {
			continue
		}
		if _, err := compilePCRE(part.value); err != nil {
			return &ConfigError{Code: CodeInvalidFormat, Param: part.param, Message: err.Error()}
		}
	}
	return nil
}

// Matches reports whether value satisfies the check pattern. An empty check accepts anything.
func (p PCRE) Matches(value string) bool {
	if p.Check == "" {
		return true
	}
	re, err := compilePCRE(p.Check)
	if err != nil {
		return false
	}
	ok, err := re.MatchString(value)
	return err == nil && ok
}

// Transform applies the search/replace pair. It never fails: on any regex
// problem the value is returned untouched.
func (p PCRE) Transform(value string) string {
	if p.Search == "" {
		return value
	}
	re, err := compilePCRE(p.Search)
	if err != nil {
		return value
	}
	out, err := re.Replace(value, p.Replace, -1, -1)
	if err != nil {
		return value
	}
	return out
}
