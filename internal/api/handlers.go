package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomaszg/debtcrusher/internal/domain"
	"github.com/tomaszg/debtcrusher/internal/models"
	"github.com/tomaszg/debtcrusher/internal/service"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "debtcrusher_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "debtcrusher_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

type Handler struct {
	session *service.Session
}

func NewHandler(s *service.Session) *Handler {
	return &Handler{session: s}
}

// Register wires all routes onto the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/overview", h.GetOverview).Methods("GET")
	r.HandleFunc("/debts", h.CreateDebt).Methods("POST")
	r.HandleFunc("/debts/{id}", h.GetDebt).Methods("GET")
	r.HandleFunc("/debts/{id}", h.UpdateDebt).Methods("PUT")
	r.HandleFunc("/debts/{id}", h.DeleteDebt).Methods("DELETE")
	r.HandleFunc("/debts/{id}/payments", h.CreatePayment).Methods("POST")
	r.HandleFunc("/debts/{id}/reopen", h.ReopenDebt).Methods("POST")
	r.HandleFunc("/payments", h.ListPayments).Methods("GET")
	r.HandleFunc("/savings", h.AddSavings).Methods("POST")
	r.HandleFunc("/savings/smash", h.SmashSavings).Methods("POST")
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "GET", "/health")
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("GET", "/overview"))
	defer timer.ObserveDuration()

	strategy, err := domain.ParseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		h.respondError(w, http.StatusUnprocessableEntity, err.Error(), "GET", "/overview")
		return
	}
	h.respondJSON(w, http.StatusOK, h.session.Overview(strategy), "GET", "/overview")
}

func (h *Handler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	var req models.AddDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/debts")
		return
	}

	debt := domain.Debt{
		Name:          req.Name,
		Category:      domain.ParseCategory(req.Category),
		InitialAmount: req.InitialAmount,
		Rate:          req.Rate,
		Installment:   req.Installment,
		Priority:      req.Priority,
		Note:          req.Note,
	}
	added, err := h.session.AddDebt(r.Context(), debt)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/debts")
		return
	}
	h.respondJSON(w, http.StatusCreated, added, "POST", "/debts")
}

func (h *Handler) GetDebt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.debtID(w, r, "GET", "/debts/{id}")
	if !ok {
		return
	}
	debt, err := h.session.GetDebt(id)
	if err != nil {
		h.respondServiceError(w, err, "GET", "/debts/{id}")
		return
	}
	h.respondJSON(w, http.StatusOK, debt, "GET", "/debts/{id}")
}

func (h *Handler) UpdateDebt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.debtID(w, r, "PUT", "/debts/{id}")
	if !ok {
		return
	}
	var patch domain.DebtPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "PUT", "/debts/{id}")
		return
	}
	updated, err := h.session.UpdateDebt(r.Context(), id, patch)
	if err != nil {
		h.respondServiceError(w, err, "PUT", "/debts/{id}")
		return
	}
	h.respondJSON(w, http.StatusOK, updated, "PUT", "/debts/{id}")
}

func (h *Handler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.debtID(w, r, "DELETE", "/debts/{id}")
	if !ok {
		return
	}
	if err := h.session.DeleteDebt(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "DELETE", "/debts/{id}")
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil, "DELETE", "/debts/{id}")
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/debts/{id}/payments"))
	defer timer.ObserveDuration()

	id, ok := h.debtID(w, r, "POST", "/debts/{id}/payments")
	if !ok {
		return
	}
	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/debts/{id}/payments")
		return
	}

	res, err := h.session.ApplyPayment(r.Context(), id, req.Amount)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/debts/{id}/payments")
		return
	}
	h.respondJSON(w, http.StatusCreated, models.PaymentResponse{
		Payment:    res.Payment,
		NewBalance: res.NewBalance,
		Settled:    res.Settled,
	}, "POST", "/debts/{id}/payments")
}

func (h *Handler) ReopenDebt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.debtID(w, r, "POST", "/debts/{id}/reopen")
	if !ok {
		return
	}
	debt, err := h.session.Reopen(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/debts/{id}/reopen")
		return
	}
	h.respondJSON(w, http.StatusOK, debt, "POST", "/debts/{id}/reopen")
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.respondError(w, http.StatusBadRequest, "Invalid limit", "GET", "/payments")
			return
		}
		limit = parsed
	}
	h.respondJSON(w, http.StatusOK, h.session.Payments(limit), "GET", "/payments")
}

func (h *Handler) AddSavings(w http.ResponseWriter, r *http.Request) {
	var req models.SavingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/savings")
		return
	}
	jar, err := h.session.AddSavings(r.Context(), req.Amount)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/savings")
		return
	}
	h.respondJSON(w, http.StatusOK, models.JarResponse{Balance: jar.Balance, Used: jar.Used}, "POST", "/savings")
}

func (h *Handler) SmashSavings(w http.ResponseWriter, r *http.Request) {
	strategy, err := domain.ParseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		h.respondError(w, http.StatusUnprocessableEntity, err.Error(), "POST", "/savings/smash")
		return
	}
	res, err := h.session.SmashSavings(r.Context(), strategy)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/savings/smash")
		return
	}
	h.respondJSON(w, http.StatusCreated, models.PaymentResponse{
		Payment:    res.Payment,
		NewBalance: res.NewBalance,
		Settled:    res.Settled,
	}, "POST", "/savings/smash")
}

func (h *Handler) debtID(w http.ResponseWriter, r *http.Request, method, endpoint string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid debt id", method, endpoint)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, method, endpoint string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "Debt not found", method, endpoint)
	case domain.IsValidation(err):
		h.respondError(w, http.StatusUnprocessableEntity, err.Error(), method, endpoint)
	case errors.Is(err, domain.ErrInvariantViolation):
		// Caller bug, not user input; surface as a server error.
		h.respondError(w, http.StatusInternalServerError, "Internal invariant violation", method, endpoint)
	default:
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error", method, endpoint)
	}
}

// Helpers
func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload interface{}, method, endpoint string) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, code int, msg, method, endpoint string) {
	h.respondJSON(w, code, map[string]string{"error": msg}, method, endpoint)
}
