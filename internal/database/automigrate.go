package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
)

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&domain.Project{},
		&domain.Group{},
		&domain.GroupMember{},
		&domain.Template{},
		&domain.State{},
		&domain.StateResponsibleGroup{},
		&domain.Field{},
		&domain.ListItem{},
		&domain.TemplateRolePermission{},
		&domain.TemplateGroupPermission{},
		&domain.FieldRolePermission{},
		&domain.FieldGroupPermission{},
		&domain.TransitionRole{},
		&domain.TransitionGroup{},
		&domain.Issue{},
		&domain.FieldValue{},
	}
}

// AutoMigrate creates or updates every table
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()
	for _, model := range Models() {
		existed := migrator.HasTable(model)
		if err := db.AutoMigrate(model); err != nil {
			log.Error("Failed to migrate table", zap.String("model", fmt.Sprintf("%T", model)), zap.Error(err))
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
		log.Debug("Migrated table", zap.String("model", fmt.Sprintf("%T", model)), zap.Bool("existed", existed))
	}
	log.Info("Database migrations completed", zap.Int("tables", len(Models())))
	return nil
}
