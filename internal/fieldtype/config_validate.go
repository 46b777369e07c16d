package fieldtype

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func parseCheckboxConfig(raw RawConfig) (Config, error) {
	cfg := CheckboxConfig{}
	if raw.Default != nil {
		b, ok := parseBool(string(*raw.Default))
		if !ok {
			return nil, invalidConfigFormat("default", string(*raw.Default))
		}
		cfg.Default = b
	}
	return cfg, nil
}

func parseNumberConfig(raw RawConfig) (Config, error) {
	limMin := strconv.FormatInt(NumberMin, 10)
	limMax := strconv.FormatInt(NumberMax, 10)

	parse := func(param string, s *Scalar, fallback int64) (int64, error) {
		if s == nil {
			return fallback, nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(string(*s)), 10, 64)
		if err != nil {
			return 0, invalidConfigFormat(param, string(*s))
		}
		if n < NumberMin || n > NumberMax {
			return 0, limitExceeded(param, string(*s), limMin, limMax)
		}
		return n, nil
	}

	min, err := parse("minimum", raw.Minimum, NumberMin)
	if err != nil {
		return nil, err
	}
	max, err := parse("maximum", raw.Maximum, NumberMax)
	if err != nil {
		return nil, err
	}
	if min > max {
		return nil, rangeConflict(strconv.FormatInt(min, 10), strconv.FormatInt(max, 10))
	}

	cfg := NumberConfig{Minimum: min, Maximum: max}
	if raw.Default != nil {
		def, err := parse("default", raw.Default, 0)
		if err != nil {
			return nil, err
		}
		if def < min || def > max {
			return nil, defaultOutOfRange(strconv.FormatInt(min, 10), strconv.FormatInt(max, 10), strconv.FormatInt(def, 10))
		}
		cfg.Default = &def
	}
	return cfg, nil
}

func parseDateConfig(raw RawConfig) (Config, error) {
	limMin := strconv.Itoa(DateMin)
	limMax := strconv.Itoa(DateMax)

	parse := func(param string, s *Scalar, fallback int) (int, error) {
		if s == nil {
			return fallback, nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(string(*s)), 10, 64)
		if err != nil {
			return 0, invalidConfigFormat(param, string(*s))
		}
		if n < DateMin || n > DateMax {
			return 0, limitExceeded(param, string(*s), limMin, limMax)
		}
		return int(n), nil
	}

	min, err := parse("minimum", raw.Minimum, DateMin)
	if err != nil {
		return nil, err
	}
	max, err := parse("maximum", raw.Maximum, DateMax)
	if err != nil {
		return nil, err
	}
	if min > max {
		return nil, rangeConflict(strconv.Itoa(min), strconv.Itoa(max))
	}

	cfg := DateConfig{Minimum: min, Maximum: max}
	if raw.Default != nil {
		def, err := parse("default", raw.Default, 0)
		if err != nil {
			return nil, err
		}
		if def < min || def > max {
			return nil, defaultOutOfRange(strconv.Itoa(min), strconv.Itoa(max), strconv.Itoa(def))
		}
		cfg.Default = &def
	}
	return cfg, nil
}

func parseDurationConfig(raw RawConfig) (Config, error) {
	limMin := FormatDuration(DurationMin)
	limMax := FormatDuration(DurationMax)

	parse := func(param string, s *Scalar, fallback int) (int, error) {
		if s == nil {
			return fallback, nil
		}
		m, ok := ParseDuration(string(*s))
		if !ok {
			return 0, invalidConfigFormat(param, string(*s))
		}
		if m < DurationMin || m > DurationMax {
			return 0, limitExceeded(param, string(*s), limMin, limMax)
		}
		return m, nil
	}

	min, err := parse("minimum", raw.Minimum, DurationMin)
	if err != nil {
		return nil, err
	}
	max, err := parse("maximum", raw.Maximum, DurationMax)
	if err != nil {
		return nil, err
	}
	if min > max {
		return nil, rangeConflict(FormatDuration(min), FormatDuration(max))
	}

	cfg := DurationConfig{Minimum: min, Maximum: max}
	if raw.Default != nil {
		def, err := parse("default", raw.Default, 0)
		if err != nil {
			return nil, err
		}
		if def < min || def > max {
			return nil, defaultOutOfRange(FormatDuration(min), FormatDuration(max), FormatDuration(def))
		}
		cfg.Default = &def
	}
	return cfg, nil
}

func parseDecimalConfig(raw RawConfig) (Config, error) {
	parse := func(param string, s *Scalar, fallback decimal.Decimal) (decimal.Decimal, error) {
		if s == nil {
			return fallback, nil
		}
		d, ok := ParseDecimal(string(*s))
		if !ok {
			return decimal.Zero, invalidConfigFormat(param, string(*s))
		}
		if d.LessThan(DecimalMin) || d.GreaterThan(DecimalMax) {
			return decimal.Zero, limitExceeded(param, string(*s), DecimalMin.String(), DecimalMax.String())
		}
		return d, nil
	}

	min, err := parse("minimum", raw.Minimum, DecimalMin)
	if err != nil {
		return nil, err
	}
	max, err := parse("maximum", raw.Maximum, DecimalMax)
	if err != nil {
		return nil, err
	}
	if min.GreaterThan(max) {
		return nil, rangeConflict(min.String(), max.String())
	}

	cfg := DecimalConfig{Minimum: min, Maximum: max}
	if raw.Default != nil {
		def, err := parse("default", raw.Default, decimal.Zero)
		if err != nil {
			return nil, err
		}
		if def.LessThan(min) || def.GreaterThan(max) {
			return nil, defaultOutOfRange(min.String(), max.String(), def.String())
		}
		cfg.Default = &def
	}
	return cfg, nil
}

func parseIssueConfig(RawConfig) (Config, error) {
	return IssueConfig{}, nil
}

// parseListConfig only checks the shape of the default reference; whether
// the item belongs to the field is checked against the field's items.
func parseListConfig(raw RawConfig) (Config, error) {
	cfg := ListConfig{}
	if raw.Default != nil && strings.TrimSpace(string(*raw.Default)) != "" {
		id, err := uuid.Parse(strings.TrimSpace(string(*raw.Default)))
		if err != nil {
			return nil, invalidConfigFormat("default", string(*raw.Default))
		}
		cfg.Default = &id
	}
	return cfg, nil
}

func parseStringConfig(raw RawConfig) (Config, error) {
	maxLength, def, pcre, err := parseTextual(raw, StringMaxLength)
	if err != nil {
		return nil, err
	}
	return StringConfig{MaxLength: maxLength, Default: def, PCRE: pcre}, nil
}

func parseTextConfig(raw RawConfig) (Config, error) {
	maxLength, def, pcre, err := parseTextual(raw, TextMaxLength)
	if err != nil {
		return nil, err
	}
	return TextConfig{MaxLength: maxLength, Default: def, PCRE: pcre}, nil
}

func parseTextual(raw RawConfig, limit int) (int, *string, PCRE, error) {
	maxLength := limit
	if raw.MaxLength != nil {
		maxLength = *raw.MaxLength
		if maxLength < 1 || maxLength > limit {
			return 0, nil, PCRE{}, limitExceeded("maxlength", strconv.Itoa(maxLength), "1", strconv.Itoa(limit))
		}
	}

	var pcre PCRE
	if raw.PCRE != nil {
		pcre = *raw.PCRE
		if err := pcre.validate(); err != nil {
			return 0, nil, PCRE{}, err
		}
	}

	var def *string
	if raw.Default != nil && string(*raw.Default) != "" {
		s := string(*raw.Default)
		if n := utf8.RuneCountInString(s); n > maxLength {
			return 0, nil, PCRE{}, defaultOutOfRange("0", strconv.Itoa(maxLength), strconv.Itoa(n))
		}
		if !pcre.Matches(s) {
			return 0, nil, PCRE{}, &ConfigError{
				Code:    CodeFormatMismatch,
				Param:   "default",
				Default: s,
				Message: "default value does not match the check pattern",
			}
		}
		def = &s
	}
	return maxLength, def, pcre, nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true, true
	case "false", "0", "off", "no", "":
		return false, true
	}
	return false, false
}
