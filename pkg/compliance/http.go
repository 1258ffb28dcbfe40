package compliance

import (
	"encoding/json"
	"errors"
	"net/http"

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
	router.HandleFunc("/compliance/companies/{id}/responses", h.handleList).Methods(http.MethodGet)
	router.HandleFunc("/compliance/companies/{id}/responses/count", h.handleCount).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	responses, err := h.service.ListDecrypted(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "failed to decrypt responses")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

func (h *HTTPHandler) handleCount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	count, err := h.service.Count(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "failed to count responses")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"count": count})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, ErrCompanyNotFound) {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}
	logger.Log.WithError(err).Error(msg)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
