package company

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meridian-vc/survey-platform/pkg/common/logger"
	"github.com/meridian-vc/survey-platform/pkg/survey"
)

type HTTPHandler struct {
	service *Service
	maxBody int64
}

func NewHTTPHandler(service *Service, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/admin/companies", h.handleCreate).Methods(http.MethodPost)
	router.HandleFunc("/admin/companies", h.handleList).Methods(http.MethodGet)
	router.HandleFunc("/admin/companies/{id}", h.handleDetail).Methods(http.MethodGet)
	router.HandleFunc("/admin/companies/{id}", h.handleDelete).Methods(http.MethodDelete)
	router.HandleFunc("/admin/companies/{id}/founders", h.handleUpdateFounders).Methods(http.MethodPatch)
	router.HandleFunc("/admin/reclassify", h.handleReclassify).Methods(http.MethodPost)
}

type createRequest struct {
	Name           string `json:"name"`
	InvestmentYear int    `json:"investment_year"`
	TotalFounders  int    `json:"total_founders"`
}

type createResponse struct {
	Company     *Company `json:"company"`
	SurveyToken string   `json:"survey_token"`
}

func (h *HTTPHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.service.Create(r.Context(), req.Name, req.InvestmentYear, req.TotalFounders)
	if err != nil {
		h.writeError(w, err, "failed to create company")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createResponse{Company: c, SurveyToken: c.SurveyToken})
}

func (h *HTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	overviews, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, err, "failed to list companies")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(overviews)
}

func (h *HTTPHandler) handleDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	detail, err := h.service.Detail(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "failed to fetch company")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

func (h *HTTPHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, "failed to delete company")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateFoundersRequest struct {
	TotalFounders int `json:"total_founders"`
}

func (h *HTTPHandler) handleUpdateFounders(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req updateFoundersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	rec, err := h.service.UpdateFounders(r.Context(), id, req.TotalFounders)
	if err != nil {
		h.writeError(w, err, "failed to update founder count")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

func (h *HTTPHandler) handleReclassify(w http.ResponseWriter, r *http.Request) {
	updated, err := h.service.ReclassifyAll(r.Context())
	if err != nil {
		h.writeError(w, err, "failed to reclassify companies")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"updated": updated})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error, msg string) {
	if survey.IsValidationError(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}
	logger.Log.WithError(err).Error(msg)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
