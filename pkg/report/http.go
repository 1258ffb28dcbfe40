package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/meridian-vc/survey-platform/pkg/common/logger"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/admin/export/runs", h.handleRuns).Methods(http.MethodGet)
	router.HandleFunc("/admin/export/{year}", h.handleExport).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil || year <= 0 {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=dfpi_report_%d.csv", year))

	if _, err := h.service.ExportYear(r.Context(), year, w); err != nil {
		// Headers may already be out; log and cut the stream.
		logger.Log.WithError(err).WithField("year", year).Error("failed to export report")
	}
}

func (h *HTTPHandler) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	runs, err := h.service.ListRuns(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list export runs")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}
