package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"delivery-tracker/internal/logx"
	"delivery-tracker/internal/rowmap"
)

// DeliveryHandler serves the /deliveries and /priority endpoints.
type DeliveryHandler struct {
	uc       deliveryUsecase
	logger   logx.Logger
	validate *validator.Validate
}

// NewDeliveryHandler creates a DeliveryHandler.
func NewDeliveryHandler(uc deliveryUsecase, logger logx.Logger) *DeliveryHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &DeliveryHandler{
		uc:       uc,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ListPending handles GET /deliveries/pending.
func (h *DeliveryHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	views, err := h.uc.ListPending(r.Context())
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toViewResponses(views))
}

// ListHistory handles GET /deliveries/history.
func (h *DeliveryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	views, err := h.uc.ListHistory(r.Context())
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toViewResponses(views))
}

// Get handles GET /deliveries/{orderID}.
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.uc.Find(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toViewResponse(v))
}

// Register handles POST /deliveries: 201 when created, 200 when an existing
// order got its status updated. For an existing order the body's non-status
// fields are ignored; the response shows what the sheet holds.
func (h *DeliveryHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	req.OrderID = strings.TrimSpace(req.OrderID)
	if err := h.validate.Struct(req); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	d, created, err := h.uc.RegisterOrUpdate(r.Context(), req.toDomain())
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(h.logger, w, r, status, toDeliveryResponse(d))
}

// UpdateStatus handles PATCH /deliveries/{orderID}/status.
func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := h.validate.Struct(req); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	if err := h.uc.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), req.toDomain()); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Priority handles GET /priority?created_at=... and reports age and bucket.
func (h *DeliveryHandler) Priority(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("created_at"))
	if raw == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "created_at is required")
		return
	}
	createdAt := rowmap.ParseTime(raw)
	if createdAt.IsZero() {
		writeError(h.logger, w, r, http.StatusBadRequest, "created_at must be RFC3339 or YYYY-MM-DD")
		return
	}
	days, p := h.uc.Classify(createdAt.In(time.UTC))
	writeJSON(h.logger, w, r, http.StatusOK, priorityResponse{Days: days, Priority: string(p)})
}
