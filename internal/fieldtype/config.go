package fieldtype

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"issue-workflow-api/internal/domain"
)

// Scalar is a configuration parameter in its textual form.
// It unmarshals from a JSON string, number or boolean.
type Scalar string

// UnmarshalJSON accepts strings, numbers and booleans
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	switch string(data) {
	case "true", "false":
		*s = Scalar(data)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("scalar must be a string, number or boolean: %w", err)
	}
	*s = Scalar(num.String())
	return nil
}

func scalarPtr(s string) *Scalar {
	v := Scalar(s)
	return &v
}

// RawConfig is the wire and storage shape of a field configuration.
// Which parameters apply depends on the field type.
type RawConfig struct {
	Minimum   *Scalar `json:"minimum,omitempty"`
	Maximum   *Scalar `json:"maximum,omitempty"`
	Default   *Scalar `json:"default,omitempty"`
	MaxLength *int    `json:"maxlength,omitempty"`
	PCRE      *PCRE   `json:"pcre,omitempty"`
}

// Config is the validated, typed configuration of one field type
type Config interface {
	FieldType() domain.FieldType
	Raw() RawConfig
}

// CheckboxConfig configures a checkbox field
type CheckboxConfig struct {
	Default bool
}

// DateConfig bounds are day offsets from today
type DateConfig struct {
	Minimum int
	Maximum int
	Default *int
}

// DecimalConfig compares values with exact decimal arithmetic
type DecimalConfig struct {
	Minimum decimal.Decimal
	Maximum decimal.Decimal
	Default *decimal.Decimal
}

// DurationConfig bounds are minutes
type DurationConfig struct {
	Minimum int
	Maximum int
	Default *int
}

// IssueConfig has no parameters
type IssueConfig struct{}

// ListConfig optionally references the default list item
type ListConfig struct {
	Default *uuid.UUID
}

// NumberConfig configures an integer field
type NumberConfig struct {
	Minimum int64
	Maximum int64
	Default *int64
}

// StringConfig configures a single line string field
type StringConfig struct {
	MaxLength int
	Default   *string
	PCRE      PCRE
}

// TextConfig configures a multi line text field
type TextConfig struct {
	MaxLength int
	Default   *string
	PCRE      PCRE
}

func (CheckboxConfig) FieldType() domain.FieldType { return domain.FieldTypeCheckbox }
func (DateConfig) FieldType() domain.FieldType     { return domain.FieldTypeDate }
func (DecimalConfig) FieldType() domain.FieldType  { return domain.FieldTypeDecimal }
func (DurationConfig) FieldType() domain.FieldType { return domain.FieldTypeDuration }
func (IssueConfig) FieldType() domain.FieldType    { return domain.FieldTypeIssue }
func (ListConfig) FieldType() domain.FieldType     { return domain.FieldTypeList }
func (NumberConfig) FieldType() domain.FieldType   { return domain.FieldTypeNumber }
func (StringConfig) FieldType() domain.FieldType   { return domain.FieldTypeString }
func (TextConfig) FieldType() domain.FieldType     { return domain.FieldTypeText }

func (c CheckboxConfig) Raw() RawConfig {
	return RawConfig{Default: scalarPtr(strconv.FormatBool(c.Default))}
}

func (c DateConfig) Raw() RawConfig {
	raw := RawConfig{
		Minimum: scalarPtr(strconv.Itoa(c.Minimum)),
		Maximum: scalarPtr(strconv.Itoa(c.Maximum)),
	}
	if c.Default != nil {
		raw.Default = scalarPtr(strconv.Itoa(*c.Default))
	}
	return raw
}

func (c DecimalConfig) Raw() RawConfig {
	raw := RawConfig{
		Minimum: scalarPtr(c.Minimum.String()),
		Maximum: scalarPtr(c.Maximum.String()),
	}
	if c.Default != nil {
		raw.Default = scalarPtr(c.Default.String())
	}
	return raw
}

func (c DurationConfig) Raw() RawConfig {
	raw := RawConfig{
		Minimum: scalarPtr(FormatDuration(c.Minimum)),
		Maximum: scalarPtr(FormatDuration(c.Maximum)),
	}
	if c.Default != nil {
		raw.Default = scalarPtr(FormatDuration(*c.Default))
	}
	return raw
}

func (IssueConfig) Raw() RawConfig { return RawConfig{} }

func (c ListConfig) Raw() RawConfig {
	if c.Default == nil {
		return RawConfig{}
	}
	return RawConfig{Default: scalarPtr(c.Default.String())}
}

func (c NumberConfig) Raw() RawConfig {
	raw := RawConfig{
		Minimum: scalarPtr(strconv.FormatInt(c.Minimum, 10)),
		Maximum: scalarPtr(strconv.FormatInt(c.Maximum, 10)),
	}
	if c.Default != nil {
		raw.Default = scalarPtr(strconv.FormatInt(*c.Default, 10))
	}
	return raw
}

func (c StringConfig) Raw() RawConfig {
	return textualRaw(c.MaxLength, c.Default, c.PCRE)
}

func (c TextConfig) Raw() RawConfig {
	return textualRaw(c.MaxLength, c.Default, c.PCRE)
}

func textualRaw(maxLength int, def *string, pcre PCRE) RawConfig {
	raw := RawConfig{MaxLength: &maxLength}
	if def != nil {
		raw.Default = scalarPtr(*def)
	}
	if !pcre.IsZero() {
		p := pcre
		raw.PCRE = &p
	}
	return raw
}

// Encode serializes a configuration for the fields.parameters column
func Encode(cfg Config) ([]byte, error) {
	return json.Marshal(cfg.Raw())
}

// Decode parses a stored fields.parameters column into a typed configuration
func Decode(fieldType domain.FieldType, parameters []byte) (Config, error) {
	var raw RawConfig
	if len(bytes.TrimSpace(parameters)) > 0 && string(parameters) != "null" {
		if err := json.Unmarshal(parameters, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode field parameters: %w", err)
		}
	}
	return ValidateConfig(fieldType, raw)
}
