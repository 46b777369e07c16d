package fieldtype

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-workflow-api/internal/domain"
)

func raw(minimum, maximum, def string) RawConfig {
	var r RawConfig
	if minimum != "" {
		r.Minimum = scalarPtr(minimum)
	}
	if maximum != "" {
		r.Maximum = scalarPtr(maximum)
	}
	if def != "" {
		r.Default = scalarPtr(def)
	}
	return r
}

func TestValidateConfig(t *testing.T) {
	tooLong := strings.Repeat("a", PCREMaxLength+1)
	maxLen := func(n int) *int { return &n }

	tests := []struct {
		name      string
		fieldType domain.FieldType
		raw       RawConfig
		wantErr   error
	}{
		{"성공: number 기본 범위", domain.FieldTypeNumber, raw("1", "5", "3"), nil},
		{"성공: number 파라미터 없음", domain.FieldTypeNumber, RawConfig{}, nil},
		{"실패: number min > max", domain.FieldTypeNumber, raw("5", "1", ""), ErrRangeConflict},
		{"실패: number min > max, default 무관", domain.FieldTypeNumber, raw("5", "1", "3"), ErrRangeConflict},
		{"실패: number default 범위 밖", domain.FieldTypeNumber, raw("1", "5", "7"), ErrDefaultOutOfRange},
		{"실패: number 형식 오류", domain.FieldTypeNumber, raw("abc", "", ""), ErrInvalidFormat},
		{"실패: number 절대 한계 초과", domain.FieldTypeNumber, raw("-2000000000", "", ""), ErrLimitExceeded},
		{"성공: date 오프셋", domain.FieldTypeDate, raw("-7", "30", "0"), nil},
		{"실패: date min > max", domain.FieldTypeDate, raw("3", "-3", ""), ErrRangeConflict},
		{"성공: duration", domain.FieldTypeDuration, raw("0:30", "8:00", "1:00"), nil},
		{"실패: duration 분 60 이상", domain.FieldTypeDuration, raw("1:60", "", ""), ErrInvalidFormat},
		{"실패: duration 시간 한계 초과", domain.FieldTypeDuration, raw("", "1000000:00", ""), ErrLimitExceeded},
		{"실패: duration min > max", domain.FieldTypeDuration, raw("9:00", "8:00", ""), ErrRangeConflict},
		{"실패: duration default 범위 밖", domain.FieldTypeDuration, raw("1:00", "2:00", "2:01"), ErrDefaultOutOfRange},
		{"성공: decimal", domain.FieldTypeDecimal, raw("1.1", "2", "1.10"), nil},
		{"실패: decimal 소수 자릿수 초과", domain.FieldTypeDecimal, raw("0.12345678901", "", ""), ErrInvalidFormat},
		{"실패: decimal min > max", domain.FieldTypeDecimal, raw("2.0000000001", "2", ""), ErrRangeConflict},
		{"실패: decimal 절대 한계 초과", domain.FieldTypeDecimal, raw("", "10000000001", ""), ErrLimitExceeded},
		{"성공: checkbox", domain.FieldTypeCheckbox, raw("", "", "true"), nil},
		{"실패: checkbox default 형식", domain.FieldTypeCheckbox, raw("", "", "maybe"), ErrInvalidFormat},
		{"성공: list default 없음", domain.FieldTypeList, RawConfig{}, nil},
		{"실패: list default 형식", domain.FieldTypeList, raw("", "", "not-a-uuid"), ErrInvalidFormat},
		{"성공: issue", domain.FieldTypeIssue, RawConfig{}, nil},
		{"성공: string", domain.FieldTypeString, RawConfig{MaxLength: maxLen(10), Default: scalarPtr("abc")}, nil},
		{"실패: string maxlength 한계 초과", domain.FieldTypeString, RawConfig{MaxLength: maxLen(StringMaxLength + 1)}, ErrLimitExceeded},
		{"성공: text maxlength 큰 값", domain.FieldTypeText, RawConfig{MaxLength: maxLen(5000)}, nil},
		{"실패: text maxlength 0", domain.FieldTypeText, RawConfig{MaxLength: maxLen(0)}, ErrLimitExceeded},
		{"실패: string default 길이 초과", domain.FieldTypeString, RawConfig{MaxLength: maxLen(2), Default: scalarPtr("abc")}, ErrDefaultOutOfRange},
		{"실패: pcre 길이 초과", domain.FieldTypeString, RawConfig{PCRE: &PCRE{Check: tooLong}}, ErrRegexTooLong},
		{"실패: pcre replace 길이 초과", domain.FieldTypeText, RawConfig{PCRE: &PCRE{Search: "a", Replace: tooLong}}, ErrRegexTooLong},
		{"실패: pcre 컴파일 오류", domain.FieldTypeString, RawConfig{PCRE: &PCRE{Check: "("}}, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ValidateConfig(tt.fieldType, tt.raw)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.fieldType, cfg.FieldType())
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

func TestValidateConfig_RangeConflictNamesBounds(t *testing.T) {
	_, err := ValidateConfig(domain.FieldTypeNumber, raw("5", "1", ""))

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, CodeRangeConflict, cfgErr.Code)
	assert.Equal(t, "5", cfgErr.Min)
	assert.Equal(t, "1", cfgErr.Max)
}

func TestValidateConfig_DefaultMustMatchCheck(t *testing.T) {
	_, err := ValidateConfig(domain.FieldTypeString, RawConfig{
		Default: scalarPtr("abc"),
		PCRE:    &PCRE{Check: `^\d+$`},
	})

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, CodeFormatMismatch, cfgErr.Code)
	assert.Equal(t, "default", cfgErr.Param)
}

func TestValidateConfig_MissingBoundsFallBackToLimits(t *testing.T) {
	cfg, err := ValidateConfig(domain.FieldTypeNumber, RawConfig{})
	require.NoError(t, err)

	number := cfg.(NumberConfig)
	assert.Equal(t, NumberMin, number.Minimum)
	assert.Equal(t, NumberMax, number.Maximum)
	assert.Nil(t, number.Default)
}

func TestRawConfig_UnmarshalScalars(t *testing.T) {
	var r RawConfig
	err := json.Unmarshal([]byte(`{"minimum": 1, "maximum": "5", "default": 3}`), &r)
	require.NoError(t, err)

	cfg, err := ValidateConfig(domain.FieldTypeNumber, r)
	require.NoError(t, err)

	number := cfg.(NumberConfig)
	assert.Equal(t, int64(1), number.Minimum)
	assert.Equal(t, int64(5), number.Maximum)
	require.NotNil(t, number.Default)
	assert.Equal(t, int64(3), *number.Default)
}

func TestRawConfig_UnmarshalRejectsObjects(t *testing.T) {
	var r RawConfig
	err := json.Unmarshal([]byte(`{"minimum": {"x": 1}}`), &r)
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	t.Run("성공: decimal 정규화 유지", func(t *testing.T) {
		cfg, err := ValidateConfig(domain.FieldTypeDecimal, raw("1.10", "2.500", "2.0"))
		require.NoError(t, err)

		data, err := Encode(cfg)
		require.NoError(t, err)
		assert.JSONEq(t, `{"minimum":"1.1","maximum":"2.5","default":"2"}`, string(data))

		decoded, err := Decode(domain.FieldTypeDecimal, data)
		require.NoError(t, err)
		dec := decoded.(DecimalConfig)
		assert.True(t, dec.Minimum.Equal(cfg.(DecimalConfig).Minimum))
		assert.True(t, dec.Default.Equal(*cfg.(DecimalConfig).Default))
	})

	t.Run("성공: string pcre 유지", func(t *testing.T) {
		cfg, err := ValidateConfig(domain.FieldTypeString, RawConfig{
			PCRE: &PCRE{Check: `^\d+$`, Search: `(\d{3})(\d+)`, Replace: "$1-$2"},
		})
		require.NoError(t, err)

		data, err := Encode(cfg)
		require.NoError(t, err)

		decoded, err := Decode(domain.FieldTypeString, data)
		require.NoError(t, err)
		assert.Equal(t, cfg, decoded)
	})

	t.Run("성공: 빈 파라미터", func(t *testing.T) {
		cfg, err := Decode(domain.FieldTypeIssue, nil)
		require.NoError(t, err)
		assert.Equal(t, IssueConfig{}, cfg)
	})

	t.Run("실패: 손상된 JSON", func(t *testing.T) {
		_, err := Decode(domain.FieldTypeNumber, []byte(`{`))
		assert.Error(t, err)
	})
}

func TestLookup_UnknownTypePanics(t *testing.T) {
	assert.Panics(t, func() {
		Lookup(domain.FieldType("color"))
	})
}

func TestLookup_CoversEveryFieldType(t *testing.T) {
	for _, ft := range domain.FieldTypes {
		assert.NotPanics(t, func() {
			kind := Lookup(ft)
			assert.Equal(t, ft, kind.Type)
		}, string(ft))
	}
}
