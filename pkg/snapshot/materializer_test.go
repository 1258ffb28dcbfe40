package snapshot

import (
	"testing"
	"time"

	"github.com/meridian-vc/survey-platform/pkg/common/models"
)

func TestDecodeSnapshot(t *testing.T) {
	event := models.Event{
		ID:   "evt-1",
		Type: "counts.updated",
		Data: map[string]interface{}{
			"company_id":            "c-42",
			"total_founders":        4,
			"total_responses":       3,
			"diverse_status":        "diverse",
			"response_rate_percent": "75.0",
			"updated_at":            time.Now().UTC().Format(time.RFC3339),
		},
	}

	snap, err := decodeSnapshot(event)
	if err != nil {
		t.Fatalf("decodeSnapshot failed: %v", err)
	}
	if snap.CompanyID != "c-42" || snap.TotalResponses != 3 || snap.DiverseStatus != "diverse" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestDecodeSnapshotRequiresCompanyID(t *testing.T) {
	event := models.Event{
		ID:   "evt-2",
		Data: map[string]interface{}{"total_responses": 1},
	}

	if _, err := decodeSnapshot(event); err == nil {
		t.Fatal("expected error for event without company_id")
	}
}

func TestKey(t *testing.T) {
	if got := Key("abc"); got != "company_snapshot:abc" {
		t.Fatalf("Key() = %q", got)
	}
}
