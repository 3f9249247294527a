package database

import (
	"fmt"

	auditRepo "github.com/xpanvictor/meetsec/internal/repository/audit"
	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(&auditRepo.AuditEntity{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
