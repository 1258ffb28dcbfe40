package company

import "time"

// Company is a surveyed portfolio entity. The survey token resolves to
// exactly one company and never changes once issued.
type Company struct {
	ID             string    `json:"id" gorm:"primaryKey;column:id"`
	Name           string    `json:"name" gorm:"column:name"`
	InvestmentYear int       `json:"investment_year" gorm:"column:investment_year;index"`
	SurveyToken    string    `json:"-" gorm:"column:survey_token;uniqueIndex"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Company) TableName() string {
	return "portfolio_companies"
}
