package aggregate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("aggregate record not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Record{})
}

// CreateTx inserts the initial counts record for a company. Called eagerly
// on company creation so total_founders is known before the first
// submission arrives.
func (r *Repository) CreateTx(ctx context.Context, tx *gorm.DB, companyID string, totalFounders int) (*Record, error) {
	now := time.Now().UTC()
	rec := &Record{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		TotalFounders: totalFounders,
		DiverseStatus: Indeterminate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// GetForUpdate reads a company's counts record inside the given transaction
// with a row-level write lock, creating it lazily when missing. Concurrent
// submissions for the same company serialize on this lock so no increment is
// lost.
func (r *Repository) GetForUpdate(ctx context.Context, tx *gorm.DB, companyID string) (*Record, error) {
	var rec Record
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rec, "company_id = ?", companyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The insert itself holds the row lock for the rest of the tx.
		return r.CreateTx(ctx, tx, companyID, 0)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) SaveTx(ctx context.Context, tx *gorm.DB, rec *Record) error {
	rec.UpdatedAt = time.Now().UTC()
	return tx.WithContext(ctx).Save(rec).Error
}

func (r *Repository) Get(ctx context.Context, companyID string) (*Record, error) {
	var rec Record
	result := r.db.WithContext(ctx).First(&rec, "company_id = ?", companyID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, result.Error
}

// ByCompanyIDs fetches counts records keyed by company for list views.
func (r *Repository) ByCompanyIDs(ctx context.Context, companyIDs []string) (map[string]Record, error) {
	if len(companyIDs) == 0 {
		return map[string]Record{}, nil
	}
	var records []Record
	if err := r.db.WithContext(ctx).
		Where("company_id IN ?", companyIDs).
		Find(&records).Error; err != nil {
		return nil, err
	}
	byCompany := make(map[string]Record, len(records))
	for _, rec := range records {
		byCompany[rec.CompanyID] = rec
	}
	return byCompany, nil
}

func (r *Repository) DeleteByCompanyTx(ctx context.Context, tx *gorm.DB, companyID string) error {
	return tx.WithContext(ctx).Where("company_id = ?", companyID).Delete(&Record{}).Error
}

// reclassifyStatus derives the status to persist for a counts row,
// reporting whether a write is needed. Must be fed the row as currently
// locked, never a copy from an earlier scan.
func reclassifyStatus(rec Record) (DiverseStatus, bool) {
	status := Classify(rec)
	return status, status != rec.DiverseStatus
}

// ReclassifyAll re-derives diverse_status for every counts record without
// touching any counter. The batch scan only collects ids; each row is
// re-read under a write lock before its status is recomputed, so a
// submission committing mid-scan cannot have its fresher status overwritten
// with a stale one.
func (r *Repository) ReclassifyAll(ctx context.Context) (int, error) {
	updated := 0
	var batch []Record
	err := r.db.WithContext(ctx).FindInBatches(&batch, 200, func(_ *gorm.DB, _ int) error {
		for i := range batch {
			id := batch[i].ID
			err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				var rec Record
				err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&rec, "id = ?", id).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Deleted since the scan; nothing to do.
					return nil
				}
				if err != nil {
					return err
				}
				status, changed := reclassifyStatus(rec)
				if !changed {
					return nil
				}
				if err := tx.Model(&Record{}).
					Where("id = ?", id).
					Updates(map[string]interface{}{
						"diverse_status": status,
						"updated_at":     time.Now().UTC(),
					}).Error; err != nil {
					return err
				}
				updated++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}).Error
	return updated, err
}
