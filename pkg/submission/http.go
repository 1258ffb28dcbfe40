package submission

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meridian-vc/survey-platform/pkg/abuse"
	"github.com/meridian-vc/survey-platform/pkg/common/logger"
	"github.com/meridian-vc/survey-platform/pkg/company"
	"github.com/meridian-vc/survey-platform/pkg/encryption"
	"github.com/meridian-vc/survey-platform/pkg/survey"
)

type HTTPHandler struct {
	service   *Service
	companies *company.Repository
	maxBody   int64
}

func NewHTTPHandler(service *Service, companies *company.Repository, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, companies: companies, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/survey/{token}", h.handleForm).Methods(http.MethodGet)
	router.HandleFunc("/survey/submit", h.handleSubmit).Methods(http.MethodPost)
}

// handleForm resolves a survey link for the frontend: company display name
// plus the axis catalog, nothing more.
func (h *HTTPHandler) handleForm(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	c, err := h.companies.GetByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			http.Error(w, "invalid survey link", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to resolve survey token")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"company_name": c.Name,
		"token":        token,
		"axes":         h.service.catalog.Axes,
	})
}

type submitWrapper struct {
	Token string `json:"token"`
	survey.RawAnswers
}

func (h *HTTPHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req submitWrapper
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.WithError(err).Warn("invalid submission payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Submit(r.Context(), Request{
		Token:      req.Token,
		Answers:    req.RawAnswers,
		OriginHash: encryption.HashOrigin(clientAddr(r)),
	})
	if err != nil {
		if survey.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, company.ErrNotFound) {
			http.Error(w, "invalid token", http.StatusNotFound)
			return
		}
		if errors.Is(err, abuse.ErrRateLimited) {
			http.Error(w, "too many submissions, try again later", http.StatusTooManyRequests)
			return
		}
		logger.Log.WithError(err).Error("failed to process submission")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
