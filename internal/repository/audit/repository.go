package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/xpanvictor/meetsec/internal/domains/audit"
	"gorm.io/gorm"
)

var ErrAuditNotFound = errors.New("audit entry not found")

// GormAuditRepo stores audit entries in MySQL.
type GormAuditRepo struct {
	db *gorm.DB
}

func NewGormAuditRepo(db *gorm.DB) *GormAuditRepo {
	return &GormAuditRepo{db: db}
}

func (g *GormAuditRepo) Name() string { return "mysql" }

// Write implements audit.Sink
func (g *GormAuditRepo) Write(ctx context.Context, e audit.Entry) error {
	entity, err := NewAuditEntityFromDomain(e)
	if err != nil {
		return err
	}
	if err := g.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

func (g *GormAuditRepo) GetByRunID(ctx context.Context, runID string) (audit.Entry, error) {
	var entity AuditEntity
	if err := g.db.WithContext(ctx).Where("run_id = ?", runID).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return audit.Entry{}, ErrAuditNotFound
		}
		return audit.Entry{}, fmt.Errorf("failed to get audit entry: %w", err)
	}
	return entity.ToDomain()
}
