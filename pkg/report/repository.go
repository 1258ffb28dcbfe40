package report

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&ExportRun{})
}

func (r *Repository) Create(ctx context.Context, run *ExportRun) error {
	run.GeneratedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]ExportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []ExportRun
	err := r.db.WithContext(ctx).
		Order("generated_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
