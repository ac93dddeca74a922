package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eugenenazirov/shipment-planner/internal/catalog"
	"github.com/eugenenazirov/shipment-planner/internal/export"
	"github.com/eugenenazirov/shipment-planner/internal/model"
	"github.com/eugenenazirov/shipment-planner/internal/packing"
	"github.com/eugenenazirov/shipment-planner/internal/shipment"
	"github.com/eugenenazirov/shipment-planner/internal/weight"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// maxBodyBytes caps request payloads.
const maxBodyBytes = 4 << 20

// Planner runs packing jobs. *shipment.Planner satisfies it.
type Planner interface {
	PackageEverything(ctx context.Context, req shipment.Request) (shipment.Report, error)
	DefaultStrategy() string
}

// Handler wires the planner and catalog store into HTTP handlers.
type Handler struct {
	planner Planner
	catalog catalog.Store

	clock func() time.Time

	mu               sync.RWMutex
	catalogUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(planner Planner, store catalog.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		planner: planner,
		catalog: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.catalogUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleStrategies(w http.ResponseWriter, r *http.Request) {
	_ = r
	writeJSON(w, http.StatusOK, strategiesResponse{
		Strategies: packing.Strategies(),
		Default:    h.planner.DefaultStrategy(),
	})
}

func (h *Handler) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := catalogResponse{
		Catalog:   h.catalog.Get().Document(),
		UpdatedAt: h.currentCatalogUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutCatalog(w http.ResponseWriter, r *http.Request) {
	var doc catalog.Document
	if err := decodeJSON(w, r, &doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	updated, err := h.catalog.Set(doc)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidCatalog) {
			writeError(w, http.StatusBadRequest, "Invalid catalog", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markCatalogUpdated()

	resp := catalogResponse{
		Catalog:   updated.Document(),
		UpdatedAt: h.currentCatalogUpdatedAt(),
		Message:   "Catalog updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePackage(w http.ResponseWriter, r *http.Request) {
	report, ok := h.runPackage(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleFreightXLSX(w http.ResponseWriter, r *http.Request) {
	report, ok := h.runPackage(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteFreightXLSX(&buf, report); err != nil {
		writeInternalError(w, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="freight-%s.xlsx"`, report.Metadata.RunID))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// runPackage decodes, validates and plans a package request. It writes the
// error response itself and reports whether the caller should continue.
func (h *Handler) runPackage(w http.ResponseWriter, r *http.Request) (shipment.Report, bool) {
	var req packageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return shipment.Report{}, false
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", validationDetails(err))
		return shipment.Report{}, false
	}

	report, err := h.planner.PackageEverything(r.Context(), req.toShipment())
	if err != nil {
		switch {
		case errors.Is(err, weight.ErrUnknownMaterial):
			writeError(w, http.StatusUnprocessableEntity, "Unknown material", err.Error(),
				"Add a weight factor for the material with PUT /api/catalog")
		case errors.Is(err, packing.ErrUnknownStrategy):
			writeError(w, http.StatusBadRequest, "Unknown strategy", err.Error(),
				fmt.Sprintf("Use one of: %s", strings.Join(packing.Strategies(), ", ")))
		case errors.Is(err, model.ErrInvalidItem), errors.Is(err, model.ErrUnknownCategory), errors.Is(err, shipment.ErrNoItems):
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		default:
			writeInternalError(w, err)
		}
		return shipment.Report{}, false
	}
	return report, true
}

func (h *Handler) currentCatalogUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalogUpdatedAt
}

func (h *Handler) markCatalogUpdated() {
	h.mu.Lock()
	h.catalogUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

type packageRequest struct {
	Items    []model.Item                `json:"items" validate:"required,min=1,max=5000,dive"`
	Strategy string                      `json:"strategy,omitempty" validate:"omitempty,max=64"`
	Delivery *model.DeliveryCapabilities `json:"delivery,omitempty"`
}

func (p packageRequest) toShipment() shipment.Request {
	items := make([]model.Item, len(p.Items))
	for i, it := range p.Items {
		it.Material = model.ParseMaterial(string(it.Material))
		items[i] = it
	}
	delivery := model.DefaultDelivery()
	if p.Delivery != nil {
		delivery = *p.Delivery
	}
	return shipment.Request{Items: items, Strategy: p.Strategy, Delivery: delivery}
}

type strategiesResponse struct {
	Strategies []string `json:"strategies"`
	Default    string   `json:"default"`
}

type catalogResponse struct {
	Catalog   catalog.Document `json:"catalog"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Message   string           `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
