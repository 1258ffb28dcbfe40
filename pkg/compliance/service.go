package compliance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meridian-vc/survey-platform/pkg/encryption"
)

var ErrCompanyNotFound = errors.New("company not found")

// CompanyDirectory answers whether a company id is known. Kept as a small
// interface so this package never depends on the operational tier's types.
type CompanyDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service is the only component that opens Tier-2 payloads. It runs in the
// compliance binary with its own keyed Encryptor; the submission path never
// constructs one of these.
type Service struct {
	directory CompanyDirectory
	responses *Repository
	encryptor *encryption.Encryptor
}

func NewService(directory CompanyDirectory, responses *Repository, encryptor *encryption.Encryptor) *Service {
	return &Service{directory: directory, responses: responses, encryptor: encryptor}
}

// DecryptedResponse pairs one opened payload with its record identity.
type DecryptedResponse struct {
	ID         string  `json:"id"`
	CompanyID  string  `json:"company_id"`
	Payload    Payload `json:"payload"`
	OriginHash string  `json:"origin_hash"`
}

// ListDecrypted opens every Tier-2 record for a company. Intended solely
// for regulatory requests.
func (s *Service) ListDecrypted(ctx context.Context, companyID string) ([]DecryptedResponse, error) {
	if err := s.checkCompany(ctx, companyID); err != nil {
		return nil, err
	}

	records, err := s.responses.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("loading responses: %w", err)
	}

	out := make([]DecryptedResponse, 0, len(records))
	for _, rec := range records {
		plaintext, err := s.encryptor.Decrypt(rec.PayloadEncrypted)
		if err != nil {
			return nil, fmt.Errorf("decrypting response %s: %w", rec.ID, err)
		}
		var payload Payload
		if err := json.Unmarshal(plaintext, &payload); err != nil {
			return nil, fmt.Errorf("decoding response %s: %w", rec.ID, err)
		}
		out = append(out, DecryptedResponse{
			ID:         rec.ID,
			CompanyID:  rec.CompanyID,
			Payload:    payload,
			OriginHash: rec.OriginHash,
		})
	}
	return out, nil
}

// Count reports how many Tier-2 records exist for a company without opening
// any of them.
func (s *Service) Count(ctx context.Context, companyID string) (int64, error) {
	if err := s.checkCompany(ctx, companyID); err != nil {
		return 0, err
	}
	return s.responses.CountByCompany(ctx, companyID)
}

func (s *Service) checkCompany(ctx context.Context, companyID string) error {
	ok, err := s.directory.Exists(ctx, companyID)
	if err != nil {
		return fmt.Errorf("resolving company: %w", err)
	}
	if !ok {
		return ErrCompanyNotFound
	}
	return nil
}
