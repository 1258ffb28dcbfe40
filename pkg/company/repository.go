package company

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("company not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Company{})
}

func (r *Repository) CreateTx(ctx context.Context, tx *gorm.DB, c *Company) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *Repository) Get(ctx context.Context, id string) (*Company, error) {
	var c Company
	result := r.db.WithContext(ctx).First(&c, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &c, result.Error
}

// GetByToken resolves a survey token. Unknown tokens map to ErrNotFound so
// callers never learn whether a token was close to a real one.
func (r *Repository) GetByToken(ctx context.Context, token string) (*Company, error) {
	var c Company
	result := r.db.WithContext(ctx).First(&c, "survey_token = ?", token)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &c, result.Error
}

// Exists reports whether a company id is known without loading the row.
func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Company{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) List(ctx context.Context) ([]Company, error) {
	var companies []Company
	err := r.db.WithContext(ctx).
		Order("investment_year DESC, name ASC").
		Find(&companies).Error
	return companies, err
}

func (r *Repository) ListByYear(ctx context.Context, year int) ([]Company, error) {
	var companies []Company
	err := r.db.WithContext(ctx).
		Where("investment_year = ?", year).
		Order("name ASC").
		Find(&companies).Error
	return companies, err
}

func (r *Repository) DeleteTx(ctx context.Context, tx *gorm.DB, id string) error {
	return tx.WithContext(ctx).Delete(&Company{}, "id = ?", id).Error
}
