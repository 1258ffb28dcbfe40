package compliance

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
	return r.db.AutoMigrate(&ResponseRecord{})
}

// CreateTx inserts a sealed response inside the caller's transaction so the
// Tier-2 write commits or rolls back together with the counts update.
func (r *Repository) CreateTx(ctx context.Context, tx *gorm.DB, rec *ResponseRecord) error {
	rec.CreatedAt = time.Now().UTC()
	return tx.WithContext(ctx).Create(rec).Error
}

func (r *Repository) ListByCompany(ctx context.Context, companyID string) ([]ResponseRecord, error) {
	var records []ResponseRecord
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *Repository) CountByCompany(ctx context.Context, companyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ResponseRecord{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

func (r *Repository) DeleteByCompanyTx(ctx context.Context, tx *gorm.DB, companyID string) error {
	return tx.WithContext(ctx).Where("company_id = ?", companyID).Delete(&ResponseRecord{}).Error
}
