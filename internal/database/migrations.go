package database

import (
	"fmt"

	"github.com/yukikurage/project-management-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type requiredIndex struct {
	model any
	name  string
}

// requiredIndexes are declared in model tags. The slug and username unique
// indexes back the registration invariants, so a schema missing them must be
// repaired before serving traffic.
var requiredIndexes = []requiredIndex{
	{&models.User{}, "idx_users_username"},
	{&models.Organization{}, "idx_organizations_slug"},
	{&models.OrganizationMember{}, "idx_org_members_user_joined"},
	{&models.Task{}, "idx_tasks_project_status"},
}

// AddIndexes creates any index from requiredIndexes that is missing. It goes
// through the Migrator so it works on every supported dialect.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()
	for _, idx := range requiredIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}
		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Info("created index", zap.String("index", idx.name))
	}
	return nil
}

// MigrateDatabase auto-migrates every model, then ensures composite indexes.
func MigrateDatabase(db *gorm.DB, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	log.Info("running database migrations")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}
