package transport

import (
	"net/http"

	"pantry-keeper/internal/domain"
	"pantry-keeper/internal/middleware"
	"pantry-keeper/internal/report"
	"pantry-keeper/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GroceryRequest is the create/update payload for a grocery item. Quantity
// and price accept numbers or numeric strings.
type GroceryRequest struct {
	Name      string        `json:"name" validate:"required,max=200"`
	Category  string        `json:"category" validate:"max=100"`
	Quantity  domain.Amount `json:"quantity" validate:"gte=0"`
	Unit      string        `json:"unit" validate:"max=50"`
	Price     domain.Amount `json:"price" validate:"gte=0"`
	StoreName string        `json:"storeName" validate:"max=200"`
}

func (req GroceryRequest) input() service.GroceryInput {
	return service.GroceryInput{
		Name:      req.Name,
		Category:  req.Category,
		Quantity:  req.Quantity.Float64(),
		Unit:      req.Unit,
		Price:     req.Price.Float64(),
		StoreName: req.StoreName,
	}
}

// GroceryHandler serves the caller's grocery list and its report
type GroceryHandler struct {
	groceryService service.GroceryService
	logger         *zap.Logger
}

// NewGroceryHandler creates a new GroceryHandler
func NewGroceryHandler(groceryService service.GroceryService, logger *zap.Logger) *GroceryHandler {
	return &GroceryHandler{
		groceryService: groceryService,
		logger:         logger,
	}
}

// RegisterRoutes registers all grocery routes
func (h *GroceryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/groceries", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/report", h.Report)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/promote", h.Promote)
	})
}

func (h *GroceryHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	var req GroceryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	item, err := h.groceryService.Create(r.Context(), owner, req.input())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create grocery item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

func (h *GroceryHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	items, err := h.groceryService.List(r.Context(), owner)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list grocery items")
		return
	}
	if items == nil {
		items = []domain.GroceryItem{}
	}

	middleware.RespondWithJSON(w, http.StatusOK, items)
}

func (h *GroceryHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	item, err := h.groceryService.Get(r.Context(), owner, id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get grocery item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req GroceryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	item, err := h.groceryService.Update(r.Context(), owner, id, req.input())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update grocery item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.groceryService.Delete(r.Context(), owner, id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete grocery item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Report returns the grocery report as JSON, or as a text download with
// ?format=text.
func (h *GroceryHandler) Report(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	rep, err := h.groceryService.Report(r.Context(), owner)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to build grocery report")
		return
	}

	if wantsText(r) {
		respondWithAttachment(w, reportFilename("grocery", rep.LastUpdated), report.FormatGroceryText(rep))
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, rep)
}

// Promote returns an unsaved inventory draft for the grocery item
func (h *GroceryHandler) Promote(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	draft, err := h.groceryService.Promote(r.Context(), owner, id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to draft inventory item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, draft)
}
