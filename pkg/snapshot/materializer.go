package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meridian-vc/survey-platform/pkg/common/logger"
	"github.com/meridian-vc/survey-platform/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

// Materializer keeps the latest non-identifying counts snapshot per company
// hot in Redis for dashboard reads. It only ever sees the event payload,
// which carries totals and the classification - no answer data exists on
// this path.
type Materializer struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMaterializer(client *redis.Client, ttl time.Duration) *Materializer {
	return &Materializer{client: client, ttl: ttl}
}

func Key(companyID string) string {
	return "company_snapshot:" + companyID
}

// Handle is the event-bus handler for counts.updated events.
func (m *Materializer) Handle(ctx context.Context, event models.Event) error {
	snap, err := decodeSnapshot(event)
	if err != nil {
		logger.Log.WithError(err).WithField("event_id", event.ID).
			Warn("dropping malformed counts event")
		return nil
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	if err := m.client.Set(ctx, Key(snap.CompanyID), payload, m.ttl).Err(); err != nil {
		return fmt.Errorf("caching snapshot for %s: %w", snap.CompanyID, err)
	}

	logger.Log.WithField("company_id", snap.CompanyID).Debug("snapshot materialized")
	return nil
}

// Get reads a cached snapshot; redis.Nil when absent or expired.
func (m *Materializer) Get(ctx context.Context, companyID string) (*models.CountsSnapshot, error) {
	raw, err := m.client.Get(ctx, Key(companyID)).Bytes()
	if err != nil {
		return nil, err
	}
	var snap models.CountsSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func decodeSnapshot(event models.Event) (*models.CountsSnapshot, error) {
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return nil, err
	}
	var snap models.CountsSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	if snap.CompanyID == "" {
		return nil, fmt.Errorf("event %s has no company_id", event.ID)
	}
	return &snap, nil
}
