package company

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meridian-vc/survey-platform/pkg/aggregate"
	"github.com/meridian-vc/survey-platform/pkg/compliance"
	"github.com/meridian-vc/survey-platform/pkg/survey"
	"gorm.io/gorm"
)

type Service struct {
	db         *gorm.DB
	companies  *Repository
	aggregates *aggregate.Repository
	responses  *compliance.Repository
}

func NewService(db *gorm.DB, companies *Repository, aggregates *aggregate.Repository, responses *compliance.Repository) *Service {
	return &Service{
		db:         db,
		companies:  companies,
		aggregates: aggregates,
		responses:  responses,
	}
}

// Overview is the list-view row: company identity plus the non-identifying
// aggregate totals.
type Overview struct {
	Company
	TotalFounders  int                     `json:"total_founders"`
	TotalResponses int                     `json:"total_responses"`
	ResponseRate   string                  `json:"response_rate_percent"`
	DiverseStatus  aggregate.DiverseStatus `json:"diverse_status"`
}

// Detail adds the full counts record and the Tier-2 response count. The
// encrypted payloads themselves are never exposed here.
type Detail struct {
	Company       Company           `json:"company"`
	Aggregate     *aggregate.Record `json:"aggregate,omitempty"`
	ResponseCount int64             `json:"response_count"`
	SurveyToken   string            `json:"survey_token"`
}

func (s *Service) Create(ctx context.Context, name string, investmentYear, totalFounders int) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, survey.NewValidationError(errors.New("company name is required"))
	}
	if investmentYear <= 0 {
		return nil, survey.NewValidationError(errors.New("investment year is required"))
	}
	if totalFounders < 0 {
		return nil, survey.NewValidationError(errors.New("total founders cannot be negative"))
	}

	token, err := generateSurveyToken()
	if err != nil {
		return nil, fmt.Errorf("generating survey token: %w", err)
	}

	c := &Company{
		ID:             uuid.New().String(),
		Name:           name,
		InvestmentYear: investmentYear,
		SurveyToken:    token,
		CreatedAt:      time.Now().UTC(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.companies.CreateTx(ctx, tx, c); err != nil {
			return err
		}
		_, err := s.aggregates.CreateTx(ctx, tx, c.ID, totalFounders)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("persisting company: %w", err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]Overview, error) {
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}
	aggs, err := s.aggregates.ByCompanyIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	overviews := make([]Overview, 0, len(companies))
	for _, c := range companies {
		o := Overview{Company: c, DiverseStatus: aggregate.Indeterminate, ResponseRate: "0"}
		if rec, ok := aggs[c.ID]; ok {
			o.TotalFounders = rec.TotalFounders
			o.TotalResponses = rec.TotalResponses
			o.ResponseRate = rec.ResponseRatePercent()
			o.DiverseStatus = rec.DiverseStatus
		}
		overviews = append(overviews, o)
	}
	return overviews, nil
}

func (s *Service) Detail(ctx context.Context, id string) (*Detail, error) {
	c, err := s.companies.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rec, err := s.aggregates.Get(ctx, id)
	if err != nil && !errors.Is(err, aggregate.ErrNotFound) {
		return nil, err
	}
	count, err := s.responses.CountByCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{
		Company:       *c,
		Aggregate:     rec,
		ResponseCount: count,
		SurveyToken:   c.SurveyToken,
	}, nil
}

// UpdateFounders corrects the expected-respondent count and re-derives the
// classification. Every per-axis counter is left untouched.
func (s *Service) UpdateFounders(ctx context.Context, id string, totalFounders int) (*aggregate.Record, error) {
	if totalFounders < 0 {
		return nil, survey.NewValidationError(errors.New("total founders cannot be negative"))
	}
	if _, err := s.companies.Get(ctx, id); err != nil {
		return nil, err
	}

	var updated *aggregate.Record
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rec, err := s.aggregates.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		rec.TotalFounders = totalFounders
		rec.DiverseStatus = aggregate.Classify(*rec)
		if err := s.aggregates.SaveTx(ctx, tx, rec); err != nil {
			return err
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating founder count: %w", err)
	}
	return updated, nil
}

// Delete removes a company along with both of its data tiers.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.companies.Get(ctx, id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.responses.DeleteByCompanyTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.aggregates.DeleteByCompanyTx(ctx, tx, id); err != nil {
			return err
		}
		return s.companies.DeleteTx(ctx, tx, id)
	})
}

// ReclassifyAll re-derives the classification for every company. Counts are
// never touched; running it twice is a no-op.
func (s *Service) ReclassifyAll(ctx context.Context) (int, error) {
	return s.aggregates.ReclassifyAll(ctx)
}

func (s *Service) ResolveToken(ctx context.Context, token string) (*Company, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, survey.NewValidationError(errors.New("survey token is required"))
	}
	return s.companies.GetByToken(ctx, token)
}

// generateSurveyToken issues an unguessable url-safe token, 32 bytes of
// entropy.
func generateSurveyToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
