package report

import (
	"testing"

	"github.com/meridian-vc/survey-platform/pkg/aggregate"
	"github.com/meridian-vc/survey-platform/pkg/company"
)

func TestDFPIRow(t *testing.T) {
	c := company.Company{Name: "Acme Robotics", InvestmentYear: 2025}
	rec := aggregate.Record{
		TotalFounders:   4,
		TotalResponses:  3,
		GenderWoman:     2,
		RaceAsian:       1,
		LGBTQYes:        1,
		VeteranYes:      1,
		VeteranDisabled: 1,
		CAResidentYes:   2,
		DiverseStatus:   aggregate.Diverse,
	}

	row := dfpiRow(c, rec)
	if len(row) != len(dfpiHeader) {
		t.Fatalf("row has %d cells, header has %d", len(row), len(dfpiHeader))
	}

	want := map[int]string{
		0:  "Acme Robotics",
		1:  "2025",
		2:  "4",
		3:  "3",
		4:  "75.0",
		5:  "2", // Gender: Woman
		10: "1", // Race: Asian
		15: "1", // LGBTQ+
		17: "2", // Veteran + Disabled Veteran combined
		18: "2", // CA Resident
		19: "Yes",
	}
	for i, cell := range want {
		if row[i] != cell {
			t.Fatalf("cell %d (%s) = %q, want %q", i, dfpiHeader[i], row[i], cell)
		}
	}
}

func TestDFPIRowWithNoSubmissions(t *testing.T) {
	c := company.Company{Name: "Stealth Co", InvestmentYear: 2024}
	row := dfpiRow(c, aggregate.Record{})

	if row[4] != "0" {
		t.Fatalf("response rate = %q, want \"0\" when founders unknown", row[4])
	}
	if row[19] != "Insufficient Data" {
		t.Fatalf("diverse cell = %q, want Insufficient Data", row[19])
	}
}

func TestDiverseCell(t *testing.T) {
	tests := []struct {
		status aggregate.DiverseStatus
		want   string
	}{
		{aggregate.Diverse, "Yes"},
		{aggregate.NotDiverse, "No"},
		{aggregate.Indeterminate, "Insufficient Data"},
		{aggregate.DiverseStatus(""), "Insufficient Data"},
	}

	for _, tt := range tests {
		if got := diverseCell(tt.status); got != tt.want {
			t.Fatalf("diverseCell(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
