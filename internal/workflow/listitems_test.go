package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/fieldtype"
)

func newListItems(t *testing.T) *ListItems {
	t.Helper()
	f := field(t, uuid.New(), domain.FieldTypeList, "Severity", 1, false, map[string]any{})
	return &ListItems{
		Template: &domain.Template{Name: "Bugs"},
		Field:    &f,
	}
}

func TestListItems_Create(t *testing.T) {
	l := newListItems(t)
	_, err := l.Create(1, "Low")
	require.NoError(t, err)

	t.Run("실패: 같은 value", func(t *testing.T) {
		_, err := l.Create(1, "anything")
		assert.ErrorIs(t, err, ErrDuplicateValue)
	})

	t.Run("실패: 대소문자만 다른 text", func(t *testing.T) {
		_, err := l.Create(2, "low")
		assert.ErrorIs(t, err, ErrDuplicateText)
	})

	t.Run("실패: value 0", func(t *testing.T) {
		_, err := l.Create(0, "Zero")
		assert.ErrorIs(t, err, ErrInvalidListItem)
	})

	t.Run("실패: text 길이 초과", func(t *testing.T) {
		_, err := l.Create(3, "this text is definitely longer than fifty characters")
		assert.ErrorIs(t, err, ErrInvalidListItem)
	})

	t.Run("실패: list 필드가 아님", func(t *testing.T) {
		other := newListItems(t)
		other.Field.Type = domain.FieldTypeString
		_, err := other.Create(1, "Low")
		assert.ErrorIs(t, err, ErrInvalidListItem)
	})

	t.Run("실패: 잠긴 템플릿", func(t *testing.T) {
		l.Template.Locked = true
		defer func() { l.Template.Locked = false }()
		_, err := l.Create(5, "High")
		assert.ErrorIs(t, err, ErrTemplateLocked)
	})

	assert.Len(t, l.Items, 1)
}

func TestListItems_Update(t *testing.T) {
	l := newListItems(t)
	low, err := l.Create(1, "Low")
	require.NoError(t, err)
	lowID := low.ID
	_, err = l.Create(2, "High")
	require.NoError(t, err)

	updated, err := l.Update(lowID, 1, "LOW")
	require.NoError(t, err)
	assert.Equal(t, "LOW", updated.Text)

	_, err = l.Update(lowID, 2, "Low")
	assert.ErrorIs(t, err, ErrDuplicateValue)

	_, err = l.Update(lowID, 1, "high")
	assert.ErrorIs(t, err, ErrDuplicateText)

	_, err = l.Update(uuid.New(), 3, "Other")
	assert.ErrorIs(t, err, fieldtype.ErrNotFound)
}

func TestListItems_Delete(t *testing.T) {
	l := newListItems(t)
	low, err := l.Create(1, "Low")
	require.NoError(t, err)
	lowID := low.ID
	high, err := l.Create(2, "High")
	require.NoError(t, err)
	highID := high.ID

	params, err := fieldtype.Encode(fieldtype.ListConfig{Default: &lowID})
	require.NoError(t, err)
	l.Field.Parameters = params

	t.Run("성공: 기본값이 아닌 항목", func(t *testing.T) {
		cleared, err := l.Delete(highID)
		require.NoError(t, err)
		assert.False(t, cleared)
	})

	t.Run("성공: 기본값 항목은 기본값을 비운다", func(t *testing.T) {
		cleared, err := l.Delete(lowID)
		require.NoError(t, err)
		assert.True(t, cleared)

		cfg, err := fieldtype.Decode(domain.FieldTypeList, l.Field.Parameters)
		require.NoError(t, err)
		assert.Nil(t, cfg.(fieldtype.ListConfig).Default)
		assert.Empty(t, l.Items)
	})

	t.Run("실패: 없는 항목", func(t *testing.T) {
		_, err := l.Delete(uuid.New())
		assert.ErrorIs(t, err, fieldtype.ErrNotFound)
	})
}

func TestListItems_CheckDefault(t *testing.T) {
	l := newListItems(t)
	item, err := l.Create(1, "Low")
	require.NoError(t, err)
	id := item.ID
	unknown := uuid.New()

	assert.NoError(t, l.CheckDefault(fieldtype.ListConfig{}))
	assert.NoError(t, l.CheckDefault(fieldtype.ListConfig{Default: &id}))
	assert.Error(t, l.CheckDefault(fieldtype.ListConfig{Default: &unknown}))
}

func TestListItems_CallerSliceUntouched(t *testing.T) {
	low := domain.ListItem{BaseModel: domain.BaseModel{ID: uuid.New()}, Value: 1, Text: "Low"}
	mid := domain.ListItem{BaseModel: domain.BaseModel{ID: uuid.New()}, Value: 2, Text: "Medium"}
	high := domain.ListItem{BaseModel: domain.BaseModel{ID: uuid.New()}, Value: 3, Text: "High"}
	loaded := make([]domain.ListItem, 3, 8)
	copy(loaded, []domain.ListItem{low, mid, high})

	l := newListItems(t)
	l.Items = loaded

	_, err := l.Delete(low.ID)
	require.NoError(t, err)
	_, err = l.Update(mid.ID, 5, "Major")
	require.NoError(t, err)
	_, err = l.Create(9, "Blocker")
	require.NoError(t, err)

	assert.Equal(t, []domain.ListItem{low, mid, high}, loaded)
	// spare capacity stays unused
	assert.Empty(t, loaded[:4][3].Text)
	require.Len(t, l.Items, 3)
	assert.Equal(t, "Major", l.Items[0].Text)
}
