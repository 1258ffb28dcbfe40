package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	submissionsAccepted  atomic.Int64
	submissionsRejected  atomic.Int64
	submissionsThrottled atomic.Int64
	declineAllTotal      atomic.Int64
	classifiedDiverse    atomic.Int64
	exportsGenerated     atomic.Int64
)

func Init() {}

func IncSubmissionAccepted() { submissionsAccepted.Add(1) }

func IncSubmissionRejected() { submissionsRejected.Add(1) }

func IncSubmissionThrottled() { submissionsThrottled.Add(1) }

func IncDeclineAll() { declineAllTotal.Add(1) }

func IncClassifiedDiverse() { classifiedDiverse.Add(1) }

func IncExportGenerated() { exportsGenerated.Add(1) }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP survey_submissions_accepted_total Number of survey submissions accepted and aggregated.\n")
	fmt.Fprintf(w, "# TYPE survey_submissions_accepted_total counter\n")
	fmt.Fprintf(w, "survey_submissions_accepted_total %d\n", submissionsAccepted.Load())

	fmt.Fprintf(w, "# HELP survey_submissions_rejected_total Number of survey submissions rejected at validation.\n")
	fmt.Fprintf(w, "# TYPE survey_submissions_rejected_total counter\n")
	fmt.Fprintf(w, "survey_submissions_rejected_total %d\n", submissionsRejected.Load())

	fmt.Fprintf(w, "# HELP survey_submissions_throttled_total Number of survey submissions refused by the abuse throttle.\n")
	fmt.Fprintf(w, "# TYPE survey_submissions_throttled_total counter\n")
	fmt.Fprintf(w, "survey_submissions_throttled_total %d\n", submissionsThrottled.Load())

	fmt.Fprintf(w, "# HELP survey_submissions_decline_all_total Number of submissions opting out of every axis.\n")
	fmt.Fprintf(w, "# TYPE survey_submissions_decline_all_total counter\n")
	fmt.Fprintf(w, "survey_submissions_decline_all_total %d\n", declineAllTotal.Load())

	fmt.Fprintf(w, "# HELP survey_classified_diverse_total Number of submissions whose company classified as primarily diverse afterwards.\n")
	fmt.Fprintf(w, "# TYPE survey_classified_diverse_total counter\n")
	fmt.Fprintf(w, "survey_classified_diverse_total %d\n", classifiedDiverse.Load())

	fmt.Fprintf(w, "# HELP survey_exports_generated_total Number of DFPI report exports generated.\n")
	fmt.Fprintf(w, "# TYPE survey_exports_generated_total counter\n")
	fmt.Fprintf(w, "survey_exports_generated_total %d\n", exportsGenerated.Load())
}
