package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/meridian-vc/survey-platform/pkg/aggregate"
	"github.com/meridian-vc/survey-platform/pkg/common/logger"
	"github.com/meridian-vc/survey-platform/pkg/company"
	"github.com/meridian-vc/survey-platform/pkg/observability/metrics"
	"gorm.io/datatypes"
)

// ReportTypeDFPI is the annual DFPI-style demographic report.
const ReportTypeDFPI = "dfpi_annual"

// Service formats Tier-1 aggregates as tabular output. It reads counts
// records only; nothing on this path can reach a Tier-2 payload.
type Service struct {
	companies  *company.Repository
	aggregates *aggregate.Repository
	runs       *Repository
}

func NewService(companies *company.Repository, aggregates *aggregate.Repository, runs *Repository) *Service {
	return &Service{companies: companies, aggregates: aggregates, runs: runs}
}

var dfpiHeader = []string{
	"Company Name",
	"Investment Year",
	"Total Founders",
	"Total Responses",
	"Response Rate %",
	"Gender: Woman",
	"Gender: Man",
	"Gender: Nonbinary",
	"Gender: Transgender",
	"Race: Black/African American",
	"Race: Asian",
	"Race: Hispanic/Latino",
	"Race: Native American",
	"Race: Pacific Islander",
	"Race: White",
	"LGBTQ+",
	"Disability",
	"Veteran/Disabled Veteran",
	"CA Resident",
	"Primarily Diverse",
}

// ExportYear writes the DFPI report for one investment year as CSV and
// records the run.
func (s *Service) ExportYear(ctx context.Context, year int, w io.Writer) (int, error) {
	companies, err := s.companies.ListByYear(ctx, year)
	if err != nil {
		return 0, fmt.Errorf("listing companies for %d: %w", year, err)
	}

	ids := make([]string, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}
	aggs, err := s.aggregates.ByCompanyIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("loading aggregates: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(dfpiHeader); err != nil {
		return 0, err
	}

	rows := 0
	for _, c := range companies {
		rec := aggs[c.ID] // zero-valued record when no submissions yet
		if err := writer.Write(dfpiRow(c, rec)); err != nil {
			return rows, err
		}
		rows++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return rows, err
	}

	run := &ExportRun{
		ID:         uuid.New().String(),
		ReportType: ReportTypeDFPI,
		Parameters: datatypes.JSONMap{"investment_year": year},
		RowCount:   rows,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		// The report already streamed; losing the run entry is log-worthy
		// but not fatal.
		logger.Log.WithError(err).Warn("failed to record export run")
	}
	metrics.IncExportGenerated()

	return rows, nil
}

func (s *Service) ListRuns(ctx context.Context, limit int) ([]ExportRun, error) {
	return s.runs.ListRecent(ctx, limit)
}

func dfpiRow(c company.Company, rec aggregate.Record) []string {
	return []string{
		c.Name,
		strconv.Itoa(c.InvestmentYear),
		strconv.Itoa(rec.TotalFounders),
		strconv.Itoa(rec.TotalResponses),
		rec.ResponseRatePercent(),
		strconv.Itoa(rec.GenderWoman),
		strconv.Itoa(rec.GenderMan),
		strconv.Itoa(rec.GenderNonbinary),
		strconv.Itoa(rec.GenderTransgender),
		strconv.Itoa(rec.RaceBlack),
		strconv.Itoa(rec.RaceAsian),
		strconv.Itoa(rec.RaceHispanic),
		strconv.Itoa(rec.RaceNativeAmerican),
		strconv.Itoa(rec.RacePacificIslander),
		strconv.Itoa(rec.RaceWhite),
		strconv.Itoa(rec.LGBTQYes),
		strconv.Itoa(rec.DisabilityYes),
		strconv.Itoa(rec.VeteranYes + rec.VeteranDisabled),
		strconv.Itoa(rec.CAResidentYes),
		diverseCell(rec.DiverseStatus),
	}
}

func diverseCell(status aggregate.DiverseStatus) string {
	switch status {
	case aggregate.Diverse:
		return "Yes"
	case aggregate.NotDiverse:
		return "No"
	default:
		return "Insufficient Data"
	}
}
