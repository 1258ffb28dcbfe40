package aggregate

import (
	"fmt"
	"time"
)

// DiverseStatus is the tri-state "primarily diverse" classification.
type DiverseStatus string

const (
	Diverse       DiverseStatus = "diverse"
	NotDiverse    DiverseStatus = "not_diverse"
	Indeterminate DiverseStatus = "indeterminate"
)

// Record is the Tier-1 operational aggregate: one row per company, counters
// only. It never carries respondent-identifying data and never references an
// individual response.
type Record struct {
	ID        string `json:"id" gorm:"primaryKey;column:id"`
	CompanyID string `json:"company_id" gorm:"column:company_id;uniqueIndex"`

	TotalFounders    int `json:"total_founders" gorm:"column:total_founders"`
	TotalResponses   int `json:"total_responses" gorm:"column:total_responses"`
	TotalDeclinedAll int `json:"total_declined_all" gorm:"column:total_declined_all"`

	GenderWoman       int `json:"gender_woman" gorm:"column:gender_woman"`
	GenderMan         int `json:"gender_man" gorm:"column:gender_man"`
	GenderNonbinary   int `json:"gender_nonbinary" gorm:"column:gender_nonbinary"`
	GenderTransgender int `json:"gender_transgender" gorm:"column:gender_transgender"`
	GenderOther       int `json:"gender_other" gorm:"column:gender_other"`
	GenderDeclined    int `json:"gender_declined" gorm:"column:gender_declined"`

	RaceBlack           int `json:"race_black" gorm:"column:race_black"`
	RaceAsian           int `json:"race_asian" gorm:"column:race_asian"`
	RaceHispanic        int `json:"race_hispanic" gorm:"column:race_hispanic"`
	RaceNativeAmerican  int `json:"race_native_american" gorm:"column:race_native_american"`
	RacePacificIslander int `json:"race_pacific_islander" gorm:"column:race_pacific_islander"`
	RaceWhite           int `json:"race_white" gorm:"column:race_white"`
	RaceOther           int `json:"race_other" gorm:"column:race_other"`
	RaceDeclined        int `json:"race_declined" gorm:"column:race_declined"`

	LGBTQYes      int `json:"lgbtq_yes" gorm:"column:lgbtq_yes"`
	LGBTQNo       int `json:"lgbtq_no" gorm:"column:lgbtq_no"`
	LGBTQDeclined int `json:"lgbtq_declined" gorm:"column:lgbtq_declined"`

	DisabilityYes      int `json:"disability_yes" gorm:"column:disability_yes"`
	DisabilityNo       int `json:"disability_no" gorm:"column:disability_no"`
	DisabilityDeclined int `json:"disability_declined" gorm:"column:disability_declined"`

	VeteranYes      int `json:"veteran_yes" gorm:"column:veteran_yes"`
	VeteranDisabled int `json:"veteran_disabled" gorm:"column:veteran_disabled"`
	VeteranNo       int `json:"veteran_no" gorm:"column:veteran_no"`
	VeteranDeclined int `json:"veteran_declined" gorm:"column:veteran_declined"`

	CAResidentYes      int `json:"ca_resident_yes" gorm:"column:ca_resident_yes"`
	CAResidentNo       int `json:"ca_resident_no" gorm:"column:ca_resident_no"`
	CAResidentDeclined int `json:"ca_resident_declined" gorm:"column:ca_resident_declined"`

	DiverseStatus DiverseStatus `json:"diverse_status" gorm:"column:diverse_status"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "aggregated_responses"
}

// ResponseRatePercent renders responses/founders as a percentage with one
// decimal place, "0" when no founder count is known.
func (r Record) ResponseRatePercent() string {
	if r.TotalFounders == 0 {
		return "0"
	}
	rate := float64(r.TotalResponses) / float64(r.TotalFounders) * 100
	return fmt.Sprintf("%.1f", rate)
}
