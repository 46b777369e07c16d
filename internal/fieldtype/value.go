package fieldtype

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"issue-workflow-api/internal/domain"
)

// DateLayout is the canonical text form of date values
const DateLayout = "2006-01-02"

// Env carries the data a value validator may consult besides the field configuration
type Env struct {
	// Today anchors date bounds, which are day offsets
	Today time.Time
	// ListItems are the items owned by the field being validated
	ListItems []domain.ListItem
	// Issues holds the ids of issues that may be referenced by issue fields
	Issues map[uuid.UUID]struct{}
}

// Definition is a field with its decoded configuration
type Definition struct {
	ID       uuid.UUID
	StateID  uuid.UUID
	Name     string
	Type     domain.FieldType
	Required bool
	Removed  bool
	Config   Config
}

// FromField decodes the configuration stored on f
func FromField(f *domain.Field) (Definition, error) {
	cfg, err := Decode(f.Type, f.Parameters)
	if err != nil {
		return Definition{}, err
	}
	return Definition{
		ID:       f.ID,
		StateID:  f.StateID,
		Name:     f.Name,
		Type:     f.Type,
		Required: f.Required,
		Removed:  f.IsRemoved(),
		Config:   cfg,
	}, nil
}

// ValidateValue validates a raw submitted value against the field definition.
// It returns the normalized value: bool (checkbox), time.Time (date),
// decimal.Decimal (decimal), int minutes (duration), uuid.UUID (issue, list),
// int64 (number), string (string, text) or nil for an empty value.
func ValidateValue(def Definition, raw any, env Env) (any, error) {
	value, err := Lookup(def.Type).ValidateValue(def.Config, normalizeRaw(raw), env)
	if err != nil {
		return nil, err
	}
	if value == nil && def.Required {
		return nil, RequiredError()
	}
	return value, nil
}

// Format returns the canonical text form of a normalized value, or nil for an empty value
func Format(t domain.FieldType, value any) *string {
	if value == nil {
		return nil
	}
	s := Lookup(t).Format(value)
	return &s
}

// DefaultValue returns the normalized default of the definition, or nil
func DefaultValue(def Definition, today time.Time) any {
	switch cfg := def.Config.(type) {
	case CheckboxConfig:
		return cfg.Default
	case DateConfig:
		if cfg.Default != nil {
			return truncateDay(today).AddDate(0, 0, *cfg.Default)
		}
	case DecimalConfig:
		if cfg.Default != nil {
			return *cfg.Default
		}
	case DurationConfig:
		if cfg.Default != nil {
			return *cfg.Default
		}
	case ListConfig:
		if cfg.Default != nil {
			return *cfg.Default
		}
	case NumberConfig:
		if cfg.Default != nil {
			return *cfg.Default
		}
	case StringConfig:
		if cfg.Default != nil {
			return *cfg.Default
		}
	case TextConfig:
		if cfg.Default != nil {
			return *cfg.Default
		}
	}
	return nil
}

// Display renders a stored value for presentation. Only string and text
// fields change: their PCRE search/replace pair is applied.
func Display(def Definition, stored string) string {
	switch cfg := def.Config.(type) {
	case StringConfig:
		return cfg.PCRE.Transform(stored)
	case TextConfig:
		return cfg.PCRE.Transform(stored)
	}
	return stored
}

// normalizeRaw turns JSON-decoded input into a string, bool or nil.
// Callers decode request bodies with UseNumber so numbers arrive as json.Number.
func normalizeRaw(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return v
	case bool:
		return v
	case json.Number:
		return v.String()
	case float64:
		// only integers below 2^53 survive float64 exactly; anything else is
		// left as is and fails the typed validators
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return strconv.FormatInt(int64(v), 10)
		}
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(raw)
}

// blank reports whether raw carries no value for non-textual fields
func blank(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && strings.TrimSpace(s) == ""
}

func validateCheckbox(_ Config, raw any, _ Env) (any, error) {
	switch v := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		if b, ok := parseBool(v); ok {
			return b, nil
		}
	}
	return nil, formatMismatch("value must be a boolean")
}

func validateNumber(c Config, raw any, _ Env) (any, error) {
	cfg := c.(NumberConfig)
	if blank(raw) {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, formatMismatch("value must be an integer")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, formatMismatch("value must be an integer")
	}
	if n < cfg.Minimum || n > cfg.Maximum {
		return nil, valueOutOfRange(strconv.FormatInt(cfg.Minimum, 10), strconv.FormatInt(cfg.Maximum, 10))
	}
	return n, nil
}

func validateDecimal(c Config, raw any, _ Env) (any, error) {
	cfg := c.(DecimalConfig)
	if blank(raw) {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, invalidValueFormat("value must be a decimal number")
	}
	d, ok := ParseDecimal(s)
	if !ok {
		return nil, invalidValueFormat("value must be a decimal number with at most 10 fraction digits")
	}
	if d.LessThan(cfg.Minimum) || d.GreaterThan(cfg.Maximum) {
		return nil, valueOutOfRange(cfg.Minimum.String(), cfg.Maximum.String())
	}
	return d, nil
}

func validateDuration(c Config, raw any, _ Env) (any, error) {
	cfg := c.(DurationConfig)
	if blank(raw) {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, invalidValueFormat("value must be a duration in H:MM format")
	}
	m, ok := ParseDuration(s)
	if !ok {
		return nil, invalidValueFormat("value must be a duration in H:MM format")
	}
	if m < cfg.Minimum || m > cfg.Maximum {
		return nil, valueOutOfRange(FormatDuration(cfg.Minimum), FormatDuration(cfg.Maximum))
	}
	return m, nil
}

func validateDate(c Config, raw any, env Env) (any, error) {
	cfg := c.(DateConfig)
	if blank(raw) {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, formatMismatch("value must be a date in YYYY-MM-DD format")
	}
	date, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil, formatMismatch("value must be a date in YYYY-MM-DD format")
	}
	today := truncateDay(env.Today)
	earliest := today.AddDate(0, 0, cfg.Minimum)
	latest := today.AddDate(0, 0, cfg.Maximum)
	if date.Before(earliest) || date.After(latest) {
		return nil, valueOutOfRange(earliest.Format(DateLayout), latest.Format(DateLayout))
	}
	return date, nil
}

func validateList(_ Config, raw any, env Env) (any, error) {
	if blank(raw) {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, NotFoundError("unknown list item")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, NotFoundError("unknown list item")
	}
	for _, item := range env.ListItems {
		if item.ID == id {
			return id, nil
		}
	}
	return nil, NotFoundError("unknown list item")
}

func validateIssue(_ Config, raw any, env Env) (any, error) {
	if blank(raw) {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, NotFoundError("unknown issue")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, NotFoundError("unknown issue")
	}
	if _, ok := env.Issues[id]; !ok {
		return nil, NotFoundError("unknown issue")
	}
	return id, nil
}

func validateTextual(c Config, raw any, _ Env) (any, error) {
	var maxLength int
	var pcre PCRE
	switch cfg := c.(type) {
	case StringConfig:
		maxLength, pcre = cfg.MaxLength, cfg.PCRE
	case TextConfig:
		maxLength, pcre = cfg.MaxLength, cfg.PCRE
	}
	if raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, formatMismatch("value must be a string")
	}
	if s == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(s) > maxLength {
		return nil, valueTooLong(maxLength)
	}
	if !pcre.Matches(s) {
		return nil, formatMismatch("value does not match the required format")
	}
	return s, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatBool(v any) string {
	return strconv.FormatBool(v.(bool))
}

func formatDate(v any) string {
	return v.(time.Time).Format(DateLayout)
}

func formatDecimalValue(v any) string {
	return FormatDecimal(v.(decimal.Decimal))
}

func formatDurationValue(v any) string {
	return FormatDuration(v.(int))
}

func formatUUID(v any) string {
	return v.(uuid.UUID).String()
}

func formatInt(v any) string {
	return strconv.FormatInt(v.(int64), 10)
}

func formatString(v any) string {
	return v.(string)
}
