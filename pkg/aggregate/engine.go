package aggregate

import (
	"github.com/meridian-vc/survey-platform/pkg/survey"
)

// Apply folds one normalized submission into a counts record and returns the
// updated record. It is pure: no I/O, no mutation of the prior record, and
// counters only ever increase, so replaying a submission history in any
// order reproduces the same final counts.
//
// A decline-all submission moves only total_declined_all and
// total_responses. Otherwise each answered axis increments exactly one
// counter; unanswered axes move nothing.
func Apply(prior Record, ans survey.Answers) Record {
	next := prior
	next.TotalResponses++

	if ans.DeclineAll {
		next.TotalDeclinedAll++
		return next
	}

	for _, axis := range survey.Axes() {
		sel := ans.Selection(axis)
		switch sel.Kind {
		case survey.SelectionAnswered:
			bump(&next, axis, sel.Category)
		case survey.SelectionDeclined:
			bump(&next, axis, "declined")
		}
	}

	return next
}

// bump increments the counter for one axis/category pair. Categories outside
// the persisted set are dropped without error, mirroring the permissive
// intake policy.
func bump(rec *Record, axis survey.Axis, category string) {
	if c := counter(rec, axis, category); c != nil {
		*c++
	}
}

func counter(rec *Record, axis survey.Axis, category string) *int {
	switch axis {
	case survey.AxisGender:
		switch category {
		case "woman":
			return &rec.GenderWoman
		case "man":
			return &rec.GenderMan
		case "nonbinary":
			return &rec.GenderNonbinary
		case "transgender":
			return &rec.GenderTransgender
		case "other":
			return &rec.GenderOther
		case "declined":
			return &rec.GenderDeclined
		}
	case survey.AxisRace:
		switch category {
		case "black":
			return &rec.RaceBlack
		case "asian":
			return &rec.RaceAsian
		case "hispanic":
			return &rec.RaceHispanic
		case "native_american":
			return &rec.RaceNativeAmerican
		case "pacific_islander":
			return &rec.RacePacificIslander
		case "white":
			return &rec.RaceWhite
		case "other":
			return &rec.RaceOther
		case "declined":
			return &rec.RaceDeclined
		}
	case survey.AxisLGBTQ:
		switch category {
		case "yes":
			return &rec.LGBTQYes
		case "no":
			return &rec.LGBTQNo
		case "declined":
			return &rec.LGBTQDeclined
		}
	case survey.AxisDisability:
		switch category {
		case "yes":
			return &rec.DisabilityYes
		case "no":
			return &rec.DisabilityNo
		case "declined":
			return &rec.DisabilityDeclined
		}
	case survey.AxisVeteran:
		switch category {
		case "yes":
			return &rec.VeteranYes
		case "disabled":
			return &rec.VeteranDisabled
		case "no":
			return &rec.VeteranNo
		case "declined":
			return &rec.VeteranDeclined
		}
	case survey.AxisCAResident:
		switch category {
		case "yes":
			return &rec.CAResidentYes
		case "no":
			return &rec.CAResidentNo
		case "declined":
			return &rec.CAResidentDeclined
		}
	}
	return nil
}
