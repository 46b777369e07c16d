package domain

import "github.com/google/uuid"

// ListItem is one selectable option of a list field
type ListItem struct {
	BaseModel
	FieldID uuid.UUID `gorm:"type:uuid;not null;index:idx_list_items_field_id;uniqueIndex:uq_list_items_field_value,priority:1;uniqueIndex:uq_list_items_field_text,priority:1" json:"field_id"`
	Value   int       `gorm:"not null;uniqueIndex:uq_list_items_field_value,priority:2" json:"value"`
	Text    string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_list_items_field_text,priority:2" json:"text"`
	Field   *Field    `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE" json:"field,omitempty"`
}

// TableName specifies the table name for ListItem
func (ListItem) TableName() string {
	return "list_items"
}
