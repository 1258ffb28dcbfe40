package compliance

import "time"

// ResponseRecord is the Tier-2 compliance record: one immutable row per
// submission. The payload is an opaque blob sealed by the encryption
// gateway; the aggregation path writes it and never reads it back. The only
// link to the operational tier is company_id.
type ResponseRecord struct {
	ID               string    `json:"id" gorm:"primaryKey;column:id"`
	CompanyID        string    `json:"company_id" gorm:"column:company_id;index"`
	PayloadEncrypted []byte    `json:"-" gorm:"column:payload_encrypted"`
	OriginHash       string    `json:"-" gorm:"column:origin_hash"`
	CreatedAt        time.Time `json:"created_at" gorm:"column:created_at"`
}

func (ResponseRecord) TableName() string {
	return "individual_responses"
}

// Payload is the decrypted answer set as stored at submission time. Only
// the compliance service ever produces one.
type Payload struct {
	Answers     map[string]interface{} `json:"answers"`
	SubmittedAt time.Time              `json:"submitted_at"`
}
