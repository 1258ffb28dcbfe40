package report

import (
	"time"

	"gorm.io/datatypes"
)

// ExportRun records one report generation: what was asked for and how many
// rows came out. Rows themselves are streamed to the caller, never stored.
type ExportRun struct {
	ID          string            `json:"id" gorm:"primaryKey;column:id"`
	ReportType  string            `json:"report_type" gorm:"column:report_type"`
	Parameters  datatypes.JSONMap `json:"parameters" gorm:"column:parameters"`
	RowCount    int               `json:"row_count" gorm:"column:row_count"`
	GeneratedAt time.Time         `json:"generated_at" gorm:"column:generated_at"`
}

func (ExportRun) TableName() string {
	return "export_runs"
}
