package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/meridian-vc/survey-platform/pkg/aggregate"
	"github.com/meridian-vc/survey-platform/pkg/company"
	"github.com/meridian-vc/survey-platform/pkg/compliance"
	"github.com/meridian-vc/survey-platform/pkg/encryption"
	"github.com/meridian-vc/survey-platform/pkg/survey"
	"gorm.io/gorm"
)

// In-memory stores with commit/rollback semantics: writes inside a
// transaction stage; the runner commits them only when the function
// succeeds, mirroring how the real repositories behave under gorm.

type memoryAggregates struct {
	committed aggregate.Record
	staged    *aggregate.Record
}

func (m *memoryAggregates) GetForUpdate(_ context.Context, _ *gorm.DB, companyID string) (*aggregate.Record, error) {
	rec := m.committed
	rec.CompanyID = companyID
	return &rec, nil
}

func (m *memoryAggregates) SaveTx(_ context.Context, _ *gorm.DB, rec *aggregate.Record) error {
	staged := *rec
	m.staged = &staged
	return nil
}

type memoryResponses struct {
	createErr error
	committed []compliance.ResponseRecord
	staged    []compliance.ResponseRecord
}

func (m *memoryResponses) CreateTx(_ context.Context, _ *gorm.DB, rec *compliance.ResponseRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.staged = append(m.staged, *rec)
	return nil
}

type memoryTx struct {
	aggregates *memoryAggregates
	responses  *memoryResponses
}

func (db *memoryTx) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	err := fc(nil)
	if err != nil {
		db.aggregates.staged = nil
		db.responses.staged = nil
		return err
	}
	if db.aggregates.staged != nil {
		db.aggregates.committed = *db.aggregates.staged
		db.aggregates.staged = nil
	}
	db.responses.committed = append(db.responses.committed, db.responses.staged...)
	db.responses.staged = nil
	return nil
}

type staticResolver struct {
	c *company.Company
}

func (r staticResolver) GetByToken(_ context.Context, token string) (*company.Company, error) {
	if r.c != nil && token == r.c.SurveyToken {
		return r.c, nil
	}
	return nil, company.ErrNotFound
}

func newTestService(t *testing.T, aggs *memoryAggregates, resps *memoryResponses) *Service {
	t.Helper()
	key := make([]byte, encryption.KeySize)
	enc, err := encryption.NewEncryptor(key)
	if err != nil {
		t.Fatalf("building encryptor: %v", err)
	}
	resolver := staticResolver{c: &company.Company{
		ID:          "c-1",
		Name:        "Acme Robotics",
		SurveyToken: "tok-acme",
	}}
	return NewService(
		&memoryTx{aggregates: aggs, responses: resps},
		survey.DefaultCatalog(),
		resolver,
		aggs,
		resps,
		enc,
		nil, // no throttle
		nil, // no event bus
	)
}

func TestSubmitCommitsBothTiers(t *testing.T) {
	aggs := &memoryAggregates{committed: aggregate.Record{ID: "agg-1", TotalFounders: 3}}
	resps := &memoryResponses{}
	svc := newTestService(t, aggs, resps)

	resp, err := svc.Submit(context.Background(), Request{
		Token:      "tok-acme",
		Answers:    survey.RawAnswers{Gender: json.RawMessage(`"woman"`)},
		OriginHash: encryption.HashOrigin("203.0.113.9"),
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if resp.Status != "accepted" {
		t.Fatalf("status = %q", resp.Status)
	}

	if aggs.committed.TotalResponses != 1 || aggs.committed.GenderWoman != 1 {
		t.Fatalf("counts not committed: %+v", aggs.committed)
	}
	if len(resps.committed) != 1 {
		t.Fatalf("tier-2 records committed = %d, want 1", len(resps.committed))
	}
	rec := resps.committed[0]
	if rec.CompanyID != "c-1" || len(rec.PayloadEncrypted) == 0 || rec.OriginHash == "" {
		t.Fatalf("tier-2 record incomplete: %+v", rec)
	}
}

// When the Tier-2 insert fails the counts update must roll back with it:
// a submission is never half recorded.
func TestSubmitRollsBackCountsWhenResponseWriteFails(t *testing.T) {
	aggs := &memoryAggregates{committed: aggregate.Record{ID: "agg-1", TotalFounders: 3}}
	resps := &memoryResponses{createErr: errors.New("constraint violation")}
	svc := newTestService(t, aggs, resps)

	_, err := svc.Submit(context.Background(), Request{
		Token:   "tok-acme",
		Answers: survey.RawAnswers{Gender: json.RawMessage(`"woman"`)},
	})
	if err == nil {
		t.Fatal("expected submit to fail")
	}

	if aggs.committed.TotalResponses != 0 || aggs.committed.GenderWoman != 0 {
		t.Fatalf("counts leaked past a failed tier-2 write: %+v", aggs.committed)
	}
	if len(resps.committed) != 0 {
		t.Fatalf("tier-2 records committed = %d, want 0", len(resps.committed))
	}
}

func TestSubmitUnknownToken(t *testing.T) {
	aggs := &memoryAggregates{}
	resps := &memoryResponses{}
	svc := newTestService(t, aggs, resps)

	_, err := svc.Submit(context.Background(), Request{Token: "tok-bogus"})
	if !errors.Is(err, company.ErrNotFound) {
		t.Fatalf("err = %v, want company.ErrNotFound", err)
	}
	if aggs.committed.TotalResponses != 0 || len(resps.committed) != 0 {
		t.Fatal("unknown token must not write anything")
	}
}

func TestSubmitRequiresToken(t *testing.T) {
	svc := newTestService(t, &memoryAggregates{}, &memoryResponses{})

	_, err := svc.Submit(context.Background(), Request{})
	if !survey.IsValidationError(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

// The sealed payload must round-trip through the compliance cipher and
// carry the answers, never the token.
func TestSubmitSealsAnswersWithoutToken(t *testing.T) {
	aggs := &memoryAggregates{committed: aggregate.Record{ID: "agg-1", TotalFounders: 3}}
	resps := &memoryResponses{}
	key := make([]byte, encryption.KeySize)
	enc, err := encryption.NewEncryptor(key)
	if err != nil {
		t.Fatalf("building encryptor: %v", err)
	}
	svc := NewService(
		&memoryTx{aggregates: aggs, responses: resps},
		survey.DefaultCatalog(),
		staticResolver{c: &company.Company{ID: "c-1", SurveyToken: "tok-acme"}},
		aggs, resps, enc, nil, nil,
	)

	if _, err := svc.Submit(context.Background(), Request{
		Token:   "tok-acme",
		Answers: survey.RawAnswers{Race: json.RawMessage(`"black"`)},
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	plaintext, err := enc.Decrypt(resps.committed[0].PayloadEncrypted)
	if err != nil {
		t.Fatalf("decrypting payload: %v", err)
	}
	var payload compliance.Payload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if payload.Answers["race"] != "black" {
		t.Fatalf("payload answers = %+v", payload.Answers)
	}
	if _, ok := payload.Answers["token"]; ok {
		t.Fatal("survey token leaked into the sealed payload")
	}
}
