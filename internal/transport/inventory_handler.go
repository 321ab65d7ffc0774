package transport

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"pantry-keeper/internal/domain"
	"pantry-keeper/internal/middleware"
	"pantry-keeper/internal/report"
	"pantry-keeper/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errInvalidExpiry = errors.New("expiryDate must be RFC 3339 or YYYY-MM-DD")

// InventoryRequest is the create/update payload for an inventory item
type InventoryRequest struct {
	Name            string         `json:"name" validate:"required,max=200"`
	Category        string         `json:"category" validate:"max=100"`
	Quantity        domain.Amount  `json:"quantity" validate:"gte=0"`
	TypicalQuantity *domain.Amount `json:"typicalQuantity" validate:"omitnil,gte=0"`
	Unit            string         `json:"unit" validate:"max=50"`
	ExpiryDate      string         `json:"expiryDate"`
	Location        string         `json:"location"`
	Notes           string         `json:"notes" validate:"max=1000"`
}

func (req InventoryRequest) input() (service.InventoryInput, error) {
	expiry, err := parseExpiry(req.ExpiryDate)
	if err != nil {
		return service.InventoryInput{}, err
	}

	in := service.InventoryInput{
		Name:       req.Name,
		Category:   req.Category,
		Quantity:   req.Quantity.Float64(),
		Unit:       req.Unit,
		ExpiryDate: expiry,
		Location:   domain.Location(strings.TrimSpace(req.Location)),
		Notes:      req.Notes,
	}
	if req.TypicalQuantity != nil {
		typical := req.TypicalQuantity.Float64()
		in.TypicalQuantity = &typical
	}
	return in, nil
}

// parseExpiry accepts a full timestamp or a bare date. Blank means no expiry.
func parseExpiry(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errInvalidExpiry
}

// decodeInventoryInput reads an InventoryRequest and replies 400 on failure
func decodeInventoryInput(w http.ResponseWriter, r *http.Request) (service.InventoryInput, bool) {
	var req InventoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return service.InventoryInput{}, false
	}

	in, err := req.input()
	if err != nil {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "expiryDate", Message: err.Error()},
		})
		return service.InventoryInput{}, false
	}
	return in, true
}

// InventoryHandler serves the caller's inventory and its report
type InventoryHandler struct {
	inventoryService service.InventoryService
	logger           *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/inventory", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/report", h.Report)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	in, ok := decodeInventoryInput(w, r)
	if !ok {
		return
	}

	item, err := h.inventoryService.Create(r.Context(), owner, in)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create inventory item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	items, err := h.inventoryService.List(r.Context(), owner)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list inventory items")
		return
	}
	respondWithItems(w, items)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	item, err := h.inventoryService.Get(r.Context(), owner, id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get inventory item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	in, ok := decodeInventoryInput(w, r)
	if !ok {
		return
	}

	item, err := h.inventoryService.Update(r.Context(), owner, id, in)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update inventory item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.Delete(r.Context(), owner, id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete inventory item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Report returns the inventory report as JSON, or as a text download with
// ?format=text.
func (h *InventoryHandler) Report(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	rep, err := h.inventoryService.Report(r.Context(), owner)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to build inventory report")
		return
	}
	respondWithInventoryReport(w, r, rep)
}

func respondWithItems(w http.ResponseWriter, items []domain.InventoryItem) {
	if items == nil {
		items = []domain.InventoryItem{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}

func respondWithInventoryReport(w http.ResponseWriter, r *http.Request, rep *report.InventoryReport) {
	if wantsText(r) {
		respondWithAttachment(w, reportFilename("inventory", rep.LastUpdated), report.FormatInventoryText(rep))
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, rep)
}
