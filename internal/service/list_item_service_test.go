package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/fieldtype"
	"issue-workflow-api/internal/response"
)

func TestListItemService(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	tpl := w.template(t)
	open := w.state(t, tpl.ID, "Open", "initial", "keep")
	field, err := w.fields.CreateField(ctx, &dto.CreateFieldRequest{StateID: open.ID, Type: "list", Name: "Severity"})
	require.NoError(t, err)

	low, err := w.listItems.CreateListItem(ctx, field.ID, &dto.ListItemRequest{Value: 1, Text: "Low"})
	require.NoError(t, err)
	high, err := w.listItems.CreateListItem(ctx, field.ID, &dto.ListItemRequest{Value: 3, Text: "High"})
	require.NoError(t, err)

	tests := []struct {
		name        string
		req         *dto.ListItemRequest
		wantErrCode string
	}{
		{name: "실패: 중복 값", req: &dto.ListItemRequest{Value: 1, Text: "Minor"}, wantErrCode: response.ErrCodeDuplicateValue},
		{name: "실패: 대소문자 무시 중복 텍스트", req: &dto.ListItemRequest{Value: 2, Text: "low"}, wantErrCode: response.ErrCodeDuplicateText},
		{name: "실패: 0 이하의 값", req: &dto.ListItemRequest{Value: 0, Text: "Zero"}, wantErrCode: response.ErrCodeValidation},
		{name: "성공: 새 항목", req: &dto.ListItemRequest{Value: 2, Text: "Medium"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.listItems.CreateListItem(ctx, field.ID, tt.req)
			if tt.wantErrCode != "" {
				assertAppError(t, err, tt.wantErrCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Medium", got.Text)
		})
	}

	t.Run("성공: 값 순서로 조회", func(t *testing.T) {
		items, err := w.listItems.ListListItems(ctx, field.ID)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{items[0].Value, items[1].Value, items[2].Value})
	})

	t.Run("성공: 자기 자신과는 중복 아님", func(t *testing.T) {
		got, err := w.listItems.UpdateListItem(ctx, high.ID, &dto.ListItemRequest{Value: 3, Text: "Critical"})
		require.NoError(t, err)
		assert.Equal(t, "Critical", got.Text)
	})

	t.Run("실패: list가 아닌 필드", func(t *testing.T) {
		flag, err := w.fields.CreateField(ctx, &dto.CreateFieldRequest{StateID: open.ID, Type: "checkbox", Name: "Flag"})
		require.NoError(t, err)
		_, err = w.listItems.CreateListItem(ctx, flag.ID, &dto.ListItemRequest{Value: 1, Text: "Yes"})
		assertAppError(t, err, response.ErrCodeValidation)
	})

	t.Run("성공: 기본값 항목 삭제 시 기본값 해제", func(t *testing.T) {
		def := fieldtype.Scalar(low.ID.String())
		_, err := w.fields.UpdateField(ctx, field.ID, &dto.UpdateFieldRequest{Parameters: &fieldtype.RawConfig{Default: &def}})
		require.NoError(t, err)

		require.NoError(t, w.listItems.DeleteListItem(ctx, low.ID))

		got, err := w.fields.GetField(ctx, field.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Parameters.Default)
	})

	t.Run("실패: 존재하지 않는 항목", func(t *testing.T) {
		err := w.listItems.DeleteListItem(ctx, uuid.New())
		assertAppError(t, err, response.ErrCodeNotFound)
	})

	_, err = w.templates.LockTemplate(ctx, tpl.ID)
	require.NoError(t, err)

	t.Run("실패: 잠긴 템플릿의 항목 추가", func(t *testing.T) {
		_, err := w.listItems.CreateListItem(ctx, field.ID, &dto.ListItemRequest{Value: 9, Text: "Blocker"})
		assertAppError(t, err, response.ErrCodeTemplateLocked)
	})
}
