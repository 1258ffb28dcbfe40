package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meridian-vc/survey-platform/pkg/abuse"
	"github.com/meridian-vc/survey-platform/pkg/aggregate"
	"github.com/meridian-vc/survey-platform/pkg/common/kafka"
	"github.com/meridian-vc/survey-platform/pkg/common/logger"
	"github.com/meridian-vc/survey-platform/pkg/common/models"
	"github.com/meridian-vc/survey-platform/pkg/company"
	"github.com/meridian-vc/survey-platform/pkg/compliance"
	"github.com/meridian-vc/survey-platform/pkg/encryption"
	"github.com/meridian-vc/survey-platform/pkg/observability/metrics"
	"github.com/meridian-vc/survey-platform/pkg/survey"
	"gorm.io/gorm"
)

// TxRunner runs a function inside one database transaction; *gorm.DB
// satisfies it directly.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// TokenResolver maps a survey token to its company.
type TokenResolver interface {
	GetByToken(ctx context.Context, token string) (*company.Company, error)
}

// AggregateStore is the Tier-1 surface the submission path needs: a locked
// read and a save, both inside the caller's transaction.
type AggregateStore interface {
	GetForUpdate(ctx context.Context, tx *gorm.DB, companyID string) (*aggregate.Record, error)
	SaveTx(ctx context.Context, tx *gorm.DB, rec *aggregate.Record) error
}

// ResponseStore persists sealed Tier-2 records inside the caller's
// transaction.
type ResponseStore interface {
	CreateTx(ctx context.Context, tx *gorm.DB, rec *compliance.ResponseRecord) error
}

// Service owns the submission path: resolve the token, normalize the answer
// set, and commit both tiers in one transaction. The Tier-2 payload is
// sealed before the transaction opens and is never read back on this path.
type Service struct {
	db         TxRunner
	catalog    survey.Catalog
	companies  TokenResolver
	aggregates AggregateStore
	responses  ResponseStore
	encryptor  *encryption.Encryptor
	limiter    *abuse.Limiter
	producer   *kafka.Producer
}

func NewService(
	db TxRunner,
	catalog survey.Catalog,
	companies TokenResolver,
	aggregates AggregateStore,
	responses ResponseStore,
	encryptor *encryption.Encryptor,
	limiter *abuse.Limiter,
	producer *kafka.Producer,
) *Service {
	return &Service{
		db:         db,
		catalog:    catalog,
		companies:  companies,
		aggregates: aggregates,
		responses:  responses,
		encryptor:  encryptor,
		limiter:    limiter,
		producer:   producer,
	}
}

// Request is one resolved survey submission: the company token, the raw
// answer set, and the one-way hash of the submitter's network origin.
type Request struct {
	Token      string
	Answers    survey.RawAnswers
	OriginHash string
}

// Submit processes one survey response. Either the counts update and the
// encrypted Tier-2 record both commit, or neither does; a failure is never
// partially recorded.
func (s *Service) Submit(ctx context.Context, req Request) (*models.SubmitResponse, error) {
	if req.Token == "" {
		metrics.IncSubmissionRejected()
		return nil, survey.NewValidationError(errors.New("survey token is required"))
	}

	c, err := s.companies.GetByToken(ctx, req.Token)
	if err != nil {
		metrics.IncSubmissionRejected()
		return nil, err
	}

	if err := s.limiter.Allow(ctx, req.OriginHash); err != nil {
		metrics.IncSubmissionThrottled()
		return nil, err
	}

	ans, err := survey.ParseAnswers(req.Answers, s.catalog)
	if err != nil {
		metrics.IncSubmissionRejected()
		return nil, err
	}

	blob, err := s.sealPayload(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("sealing response payload: %w", err)
	}

	var next aggregate.Record
	err = s.db.Transaction(func(tx *gorm.DB) error {
		rec, err := s.aggregates.GetForUpdate(ctx, tx, c.ID)
		if err != nil {
			return err
		}

		next = aggregate.Apply(*rec, ans)
		next.DiverseStatus = aggregate.Classify(next)

		if err := s.responses.CreateTx(ctx, tx, &compliance.ResponseRecord{
			ID:               uuid.New().String(),
			CompanyID:        c.ID,
			PayloadEncrypted: blob,
			OriginHash:       req.OriginHash,
		}); err != nil {
			return err
		}

		return s.aggregates.SaveTx(ctx, tx, &next)
	})
	if err != nil {
		return nil, fmt.Errorf("persisting submission: %w", err)
	}

	metrics.IncSubmissionAccepted()
	if ans.DeclineAll {
		metrics.IncDeclineAll()
	}
	if next.DiverseStatus == aggregate.Diverse {
		metrics.IncClassifiedDiverse()
	}

	s.publishSnapshot(ctx, next)

	return &models.SubmitResponse{
		Status:    "accepted",
		Message:   "Thank you for completing the survey",
		Timestamp: time.Now().UTC(),
	}, nil
}

// sealPayload wraps the raw answer set with the submission timestamp and
// encrypts it. The token never enters the payload.
func (s *Service) sealPayload(raw survey.RawAnswers) ([]byte, error) {
	answers := make(map[string]interface{})
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rawJSON, &answers); err != nil {
		return nil, err
	}

	plaintext, err := json.Marshal(compliance.Payload{
		Answers:     answers,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return s.encryptor.Encrypt(plaintext)
}

// publishSnapshot emits the non-identifying aggregate view after commit.
// Best effort: a bus outage must not fail an already-committed submission.
func (s *Service) publishSnapshot(ctx context.Context, rec aggregate.Record) {
	if s.producer == nil {
		return
	}
	data := map[string]interface{}{
		"company_id":            rec.CompanyID,
		"total_founders":        rec.TotalFounders,
		"total_responses":       rec.TotalResponses,
		"total_declined_all":    rec.TotalDeclinedAll,
		"diverse_status":        string(rec.DiverseStatus),
		"response_rate_percent": rec.ResponseRatePercent(),
		"updated_at":            rec.UpdatedAt,
	}
	if err := s.producer.PublishEvent(ctx, "counts.updated", "survey-service", data); err != nil {
		logger.Log.WithError(err).WithField("company_id", rec.CompanyID).
			Warn("failed to publish counts snapshot")
	}
}
