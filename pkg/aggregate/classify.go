package aggregate

// Classify derives the "primarily diverse" classification from a counts
// record. It reads counters only and is idempotent, so it can be re-run in
// bulk or after an administrator corrects total_founders without touching
// any counter.
//
// The indicator sum adds independent per-axis counters, so one respondent
// who is diverse on several axes contributes more than once. That makes the
// comparison against total_responses a deliberately loose heuristic rather
// than a per-respondent "at least one diverse trait" count. The reporting
// rule is defined this way; do not tighten it here.
func Classify(rec Record) DiverseStatus {
	// Response rate must exceed 50%, not merely meet it.
	if rec.TotalFounders == 0 || 2*rec.TotalResponses <= rec.TotalFounders {
		return Indeterminate
	}

	indicators := rec.GenderWoman + rec.GenderNonbinary + rec.GenderTransgender +
		rec.RaceBlack + rec.RaceAsian + rec.RaceHispanic +
		rec.RaceNativeAmerican + rec.RacePacificIslander +
		rec.LGBTQYes +
		rec.DisabilityYes +
		rec.VeteranYes + rec.VeteranDisabled

	if indicators >= rec.TotalResponses {
		return Diverse
	}
	return NotDiverse
}
