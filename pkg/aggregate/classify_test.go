package aggregate

import "testing"

func TestClassifyResponseRateThreshold(t *testing.T) {
	tests := []struct {
		name      string
		founders  int
		responses int
		want      DiverseStatus
	}{
		{"no founders", 0, 3, Indeterminate},
		{"no responses", 4, 0, Indeterminate},
		{"exactly half does not qualify", 4, 2, Indeterminate},
		// 3 of 4 responded but no diverse indicators at all
		{"above half proceeds to indicator test", 4, 3, NotDiverse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{TotalFounders: tt.founders, TotalResponses: tt.responses}
			if got := Classify(rec); got != tt.want {
				t.Fatalf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

// Three founders, full response rate: a woman who is Black and LGBTQ+, an
// Asian man, and a nonbinary Hispanic LGBTQ+ respondent with a disability.
// The indicator sum (1+1+1+1+2+1+1 = 8) clears total_responses (3) easily.
func TestClassifyWorkedExample(t *testing.T) {
	rec := Record{
		TotalFounders:   3,
		TotalResponses:  3,
		GenderWoman:     1,
		GenderMan:       1,
		GenderNonbinary: 1,
		RaceBlack:       1,
		RaceAsian:       1,
		RaceHispanic:    1,
		LGBTQYes:        2,
		LGBTQNo:         1,
		DisabilityYes:   1,
		DisabilityNo:    2,
	}

	if got := Classify(rec); got != Diverse {
		t.Fatalf("Classify() = %s, want %s", got, Diverse)
	}
}

// The indicator sum adds independent axis counters, so one respondent with
// several diverse traits can carry a whole company over the threshold. This
// over-counting is the defined reporting rule, not a bug.
func TestClassifyOverCountsAcrossAxes(t *testing.T) {
	// Two responses; a single respondent who is a disabled LGBTQ+ woman
	// contributes 3 indicators on her own.
	rec := Record{
		TotalFounders:  3,
		TotalResponses: 2,
		GenderWoman:    1,
		GenderMan:      1,
		LGBTQYes:       1,
		DisabilityYes:  1,
	}

	if got := Classify(rec); got != Diverse {
		t.Fatalf("Classify() = %s, want %s (indicator sum 3 >= 2 responses)", got, Diverse)
	}
}

func TestClassifyNotDiverse(t *testing.T) {
	rec := Record{
		TotalFounders:  2,
		TotalResponses: 2,
		GenderMan:      2,
		RaceWhite:      2,
		LGBTQNo:        2,
	}

	if got := Classify(rec); got != NotDiverse {
		t.Fatalf("Classify() = %s, want %s", got, NotDiverse)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	rec := Record{TotalFounders: 3, TotalResponses: 3, GenderWoman: 2, RaceBlack: 2}

	first := Classify(rec)
	rec.DiverseStatus = first
	second := Classify(rec)

	if first != second {
		t.Fatalf("classification changed on re-run: %s then %s", first, second)
	}
}

// Correcting total_founders re-derives the classification without touching
// any counter.
func TestClassifyAfterFounderCorrection(t *testing.T) {
	rec := Record{TotalFounders: 10, TotalResponses: 3, GenderWoman: 3}

	if got := Classify(rec); got != Indeterminate {
		t.Fatalf("before correction: Classify() = %s, want %s", got, Indeterminate)
	}

	corrected := rec
	corrected.TotalFounders = 4

	if got := Classify(corrected); got != Diverse {
		t.Fatalf("after correction: Classify() = %s, want %s", got, Diverse)
	}
	if corrected.GenderWoman != rec.GenderWoman || corrected.TotalResponses != rec.TotalResponses {
		t.Fatal("founder correction altered counters")
	}
}

func TestResponseRatePercent(t *testing.T) {
	tests := []struct {
		founders  int
		responses int
		want      string
	}{
		{0, 5, "0"},
		{4, 2, "50.0"},
		{3, 3, "100.0"},
		{3, 1, "33.3"},
	}

	for _, tt := range tests {
		rec := Record{TotalFounders: tt.founders, TotalResponses: tt.responses}
		if got := rec.ResponseRatePercent(); got != tt.want {
			t.Fatalf("ResponseRatePercent(%d/%d) = %q, want %q", tt.responses, tt.founders, got, tt.want)
		}
	}
}

// Bulk reclassification must derive from the row's current counters, not
// from whatever status an earlier scan observed. A record whose counters
// moved after the scan gets the fresh classification; a record already
// carrying it gets no write at all.
func TestReclassifyStatusUsesCurrentCounters(t *testing.T) {
	fresh := Record{
		TotalFounders:  3,
		TotalResponses: 2,
		GenderWoman:    2,
		RaceBlack:      2,
		DiverseStatus:  Indeterminate, // stale, from before the counters moved
	}

	status, changed := reclassifyStatus(fresh)
	if !changed {
		t.Fatal("expected a write for a stale status")
	}
	if status != Diverse {
		t.Fatalf("reclassifyStatus() = %s, want %s", status, Diverse)
	}

	fresh.DiverseStatus = status
	if _, changed := reclassifyStatus(fresh); changed {
		t.Fatal("expected no write when the status is already current")
	}
}
