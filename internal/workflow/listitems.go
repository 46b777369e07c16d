package workflow

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/fieldtype"
)

// ListItems is the option set of one list field, with the lock state of its
// template. Mutations replace Items with a new slice; the slice handed in by
// the caller is never written to.
type ListItems struct {
	Template *domain.Template
	Field    *domain.Field
	Items    []domain.ListItem
}

// RequireUnlocked fails TemplateLocked when structural edits are frozen
func RequireUnlocked(tpl *domain.Template) error {
	if tpl.Locked {
		return newError(CodeTemplateLocked, "template %q is locked", tpl.Name)
	}
	return nil
}

func (l *ListItems) check(value int, text string, self uuid.UUID) error {
	if err := RequireUnlocked(l.Template); err != nil {
		return err
	}
	if l.Field.Type != domain.FieldTypeList {
		return newError(CodeInvalidListItem, "field %q is not a list field", l.Field.Name)
	}
	if value < fieldtype.ListItemMinValue {
		return newError(CodeInvalidListItem, "value must be at least %d", fieldtype.ListItemMinValue)
	}
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > fieldtype.ListItemMaxTextLen {
		return newError(CodeInvalidListItem, "text must be 1 to %d characters", fieldtype.ListItemMaxTextLen)
	}

	for _, item := range l.Items {
		if item.ID != self && item.Value == value {
			return newError(CodeDuplicateValue, "value %d is already used", value)
		}
	}
	for _, item := range l.Items {
		if item.ID != self && strings.EqualFold(item.Text, text) {
			return newError(CodeDuplicateText, "text %q is already used", text)
		}
	}
	return nil
}

// Create validates a new item and appends it to the set
func (l *ListItems) Create(value int, text string) (*domain.ListItem, error) {
	if err := l.check(value, text, uuid.Nil); err != nil {
		return nil, err
	}
	item := domain.ListItem{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		FieldID:   l.Field.ID,
		Value:     value,
		Text:      strings.TrimSpace(text),
	}
	l.Items = append(slices.Clip(l.Items), item)
	return &l.Items[len(l.Items)-1], nil
}

// Update changes value and text of an existing item
func (l *ListItems) Update(id uuid.UUID, value int, text string) (*domain.ListItem, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return nil, fieldtype.NotFoundError("unknown list item")
	}
	if err := l.check(value, text, id); err != nil {
		return nil, err
	}
	l.Items = slices.Clone(l.Items)
	l.Items[idx].Value = value
	l.Items[idx].Text = strings.TrimSpace(text)
	return &l.Items[idx], nil
}

// Delete removes an item. When the item was the field's default, the field
// configuration is rewritten without a default and clearedDefault is true;
// the new parameters are then in l.Field.Parameters.
func (l *ListItems) Delete(id uuid.UUID) (clearedDefault bool, err error) {
	if err := RequireUnlocked(l.Template); err != nil {
		return false, err
	}
	idx := l.indexOf(id)
	if idx < 0 {
		return false, fieldtype.NotFoundError("unknown list item")
	}
	items := make([]domain.ListItem, 0, len(l.Items)-1)
	items = append(items, l.Items[:idx]...)
	l.Items = append(items, l.Items[idx+1:]...)

	cfg, err := fieldtype.Decode(l.Field.Type, l.Field.Parameters)
	if err != nil {
		return false, err
	}
	list := cfg.(fieldtype.ListConfig)
	if list.Default == nil || *list.Default != id {
		return false, nil
	}
	list.Default = nil
	params, err := fieldtype.Encode(list)
	if err != nil {
		return false, err
	}
	l.Field.Parameters = params
	return true, nil
}

// CheckDefault verifies that a list field's default references one of its items
func (l *ListItems) CheckDefault(cfg fieldtype.ListConfig) error {
	if cfg.Default == nil {
		return nil
	}
	if l.indexOf(*cfg.Default) < 0 {
		return &fieldtype.ConfigError{
			Code:    fieldtype.CodeNotFound,
			Param:   "default",
			Default: cfg.Default.String(),
			Message: "default must reference an item of the field",
		}
	}
	return nil
}

func (l *ListItems) indexOf(id uuid.UUID) int {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return i
		}
	}
	return -1
}
