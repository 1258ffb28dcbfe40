package aggregate

import (
	"encoding/json"
	"testing"

	"github.com/meridian-vc/survey-platform/pkg/survey"
)

func mustParse(t *testing.T, raw survey.RawAnswers) survey.Answers {
	t.Helper()
	ans, err := survey.ParseAnswers(raw, survey.DefaultCatalog())
	if err != nil {
		t.Fatalf("failed to parse answers: %v", err)
	}
	return ans
}

func rawMsg(v string) json.RawMessage {
	return json.RawMessage(`"` + v + `"`)
}

func TestApplyIncrementsOneCounterPerAxis(t *testing.T) {
	ans := mustParse(t, survey.RawAnswers{
		Gender:     rawMsg("woman"),
		Race:       rawMsg("black"),
		LGBTQ:      rawMsg("yes"),
		Disability: rawMsg("no"),
		Veteran:    rawMsg("disabled_veteran"),
		CAResident: rawMsg("yes"),
	})

	next := Apply(Record{}, ans)

	if next.TotalResponses != 1 {
		t.Fatalf("total_responses = %d, want 1", next.TotalResponses)
	}
	if next.GenderWoman != 1 || next.RaceBlack != 1 || next.LGBTQYes != 1 ||
		next.DisabilityNo != 1 || next.VeteranDisabled != 1 || next.CAResidentYes != 1 {
		t.Fatalf("unexpected counters: %+v", next)
	}
	if next.TotalDeclinedAll != 0 {
		t.Fatalf("total_declined_all = %d, want 0", next.TotalDeclinedAll)
	}
}

func TestApplyDeclineAllMovesOnlyDeclineCounters(t *testing.T) {
	ans := mustParse(t, survey.RawAnswers{
		DeclineAll: true,
		// axis answers must be ignored when decline_all is set
		Gender: rawMsg("woman"),
	})

	prior := Record{TotalResponses: 2, GenderWoman: 1}
	next := Apply(prior, ans)

	if next.TotalResponses != 3 {
		t.Fatalf("total_responses = %d, want 3", next.TotalResponses)
	}
	if next.TotalDeclinedAll != 1 {
		t.Fatalf("total_declined_all = %d, want 1", next.TotalDeclinedAll)
	}
	if next.GenderWoman != prior.GenderWoman {
		t.Fatalf("gender_woman moved on decline-all: %d", next.GenderWoman)
	}
}

func TestApplyUnansweredAxisMovesNothing(t *testing.T) {
	ans := mustParse(t, survey.RawAnswers{Gender: rawMsg("man")})
	next := Apply(Record{}, ans)

	if next.GenderMan != 1 {
		t.Fatalf("gender_man = %d, want 1", next.GenderMan)
	}
	// Missing axes are no-answers, not declines.
	if next.RaceDeclined != 0 || next.LGBTQDeclined != 0 {
		t.Fatalf("unanswered axes incremented decline counters: %+v", next)
	}
}

func TestApplyExplicitDeclineCountsPerAxis(t *testing.T) {
	ans := mustParse(t, survey.RawAnswers{
		Gender: rawMsg("decline"),
		LGBTQ:  rawMsg("decline"),
	})
	next := Apply(Record{}, ans)

	if next.GenderDeclined != 1 || next.LGBTQDeclined != 1 {
		t.Fatalf("decline counters not incremented: %+v", next)
	}
	if next.TotalDeclinedAll != 0 {
		t.Fatalf("per-axis declines must not touch total_declined_all")
	}
}

func TestApplyDoesNotMutatePrior(t *testing.T) {
	prior := Record{TotalResponses: 5, GenderWoman: 2}
	_ = Apply(prior, mustParse(t, survey.RawAnswers{Gender: rawMsg("woman")}))

	if prior.TotalResponses != 5 || prior.GenderWoman != 2 {
		t.Fatalf("prior record mutated: %+v", prior)
	}
}

func TestApplyOrderIndependent(t *testing.T) {
	a := mustParse(t, survey.RawAnswers{Gender: rawMsg("woman"), Race: rawMsg("asian")})
	b := mustParse(t, survey.RawAnswers{Gender: rawMsg("man"), LGBTQ: rawMsg("yes")})

	ab := Apply(Apply(Record{}, a), b)
	ba := Apply(Apply(Record{}, b), a)

	if ab != ba {
		t.Fatalf("aggregation is order dependent:\nab = %+v\nba = %+v", ab, ba)
	}
}

func TestApplyCountersAreMonotone(t *testing.T) {
	submissions := []survey.RawAnswers{
		{Gender: rawMsg("woman"), Race: rawMsg("black")},
		{DeclineAll: true},
		{LGBTQ: rawMsg("decline")},
		{Veteran: rawMsg("veteran"), CAResident: rawMsg("no")},
	}

	rec := Record{}
	for i, raw := range submissions {
		next := Apply(rec, mustParse(t, raw))
		if next.TotalResponses != rec.TotalResponses+1 {
			t.Fatalf("submission %d: total_responses went from %d to %d", i, rec.TotalResponses, next.TotalResponses)
		}
		for name, pair := range counterPairs(rec, next) {
			if pair[1] < pair[0] {
				t.Fatalf("submission %d: counter %s decreased from %d to %d", i, name, pair[0], pair[1])
			}
		}
		rec = next
	}
}

// counterPairs flattens two records into before/after pairs via their JSON
// field names.
func counterPairs(before, after Record) map[string][2]int {
	toMap := func(r Record) map[string]int {
		raw, _ := json.Marshal(r)
		var all map[string]interface{}
		_ = json.Unmarshal(raw, &all)
		out := make(map[string]int)
		for k, v := range all {
			if n, ok := v.(float64); ok {
				out[k] = int(n)
			}
		}
		return out
	}
	b, a := toMap(before), toMap(after)
	pairs := make(map[string][2]int, len(b))
	for k, bv := range b {
		pairs[k] = [2]int{bv, a[k]}
	}
	return pairs
}
