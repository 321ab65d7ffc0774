package transport

import (
	"context"
	"net/http"

	"pantry-keeper/internal/domain"
	"pantry-keeper/internal/middleware"
	"pantry-keeper/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvitationRequest asks to share the caller's inventory with someone
type InvitationRequest struct {
	RecipientEmail string             `json:"recipientEmail" validate:"required,email"`
	Relationship   string             `json:"relationship" validate:"required,oneof=parent child sibling spouse other"`
	Permissions    domain.Permissions `json:"permissions"`
}

// FamilyHandler serves invitations, memberships and shared inventories
type FamilyHandler struct {
	familyService service.FamilyService
	logger        *zap.Logger
}

// NewFamilyHandler creates a new FamilyHandler
func NewFamilyHandler(familyService service.FamilyService, logger *zap.Logger) *FamilyHandler {
	return &FamilyHandler{
		familyService: familyService,
		logger:        logger,
	}
}

// RegisterRoutes registers all family routes
func (h *FamilyHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/family", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/invitations", h.Invite)
		r.Get("/invitations", h.ListInvitations)
		r.Put("/invitations/{id}/accept", h.Accept)
		r.Put("/invitations/{id}/reject", h.Reject)
		r.Get("/members", h.ListMembers)

		r.Get("/{ownerId}/inventory", h.SharedInventory)
		r.Get("/{ownerId}/inventory/report", h.SharedInventoryReport)
		r.Put("/{ownerId}/inventory/{id}", h.UpdateSharedItem)
	})
}

func (h *FamilyHandler) Invite(w http.ResponseWriter, r *http.Request) {
	sender, ok := callerID(w, r)
	if !ok {
		return
	}

	var req InvitationRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	inv, err := h.familyService.Invite(r.Context(), sender, service.InvitationInput{
		RecipientEmail: req.RecipientEmail,
		Relationship:   domain.Relationship(req.Relationship),
		Permissions:    req.Permissions,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to send invitation")
		return
	}

	h.logger.Info("Family invitation sent",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("sender_id", sender.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, inv)
}

func (h *FamilyHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	list, err := h.familyService.ListInvitations(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list invitations")
		return
	}
	if list.Received == nil {
		list.Received = []domain.FamilyInvitation{}
	}
	if list.Sent == nil {
		list.Sent = []domain.FamilyInvitation{}
	}

	middleware.RespondWithJSON(w, http.StatusOK, list)
}

func (h *FamilyHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, h.familyService.Accept, "accepted")
}

func (h *FamilyHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, h.familyService.Reject, "rejected")
}

func (h *FamilyHandler) answer(w http.ResponseWriter, r *http.Request, act func(ctx context.Context, user, id uuid.UUID) error, verb string) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := act(r.Context(), userID, id); err != nil {
		respondServiceError(w, h.logger, err, "failed to answer invitation")
		return
	}

	h.logger.Info("Family invitation answered",
		zap.String("invitation_id", id.String()),
		zap.String("status", verb),
	)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "invitation " + verb})
}

func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	members, err := h.familyService.ListMembers(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list family members")
		return
	}
	if members == nil {
		members = []domain.FamilyMember{}
	}

	middleware.RespondWithJSON(w, http.StatusOK, members)
}

// SharedInventory lists another member's inventory
func (h *FamilyHandler) SharedInventory(w http.ResponseWriter, r *http.Request) {
	viewer, ok := callerID(w, r)
	if !ok {
		return
	}
	owner, ok := uuidParam(w, r, "ownerId")
	if !ok {
		return
	}

	items, err := h.familyService.SharedInventory(r.Context(), viewer, owner)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get shared inventory")
		return
	}
	respondWithItems(w, items)
}

func (h *FamilyHandler) SharedInventoryReport(w http.ResponseWriter, r *http.Request) {
	viewer, ok := callerID(w, r)
	if !ok {
		return
	}
	owner, ok := uuidParam(w, r, "ownerId")
	if !ok {
		return
	}

	rep, err := h.familyService.SharedInventoryReport(r.Context(), viewer, owner)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to build shared inventory report")
		return
	}
	respondWithInventoryReport(w, r, rep)
}

// UpdateSharedItem edits an item in another member's inventory
func (h *FamilyHandler) UpdateSharedItem(w http.ResponseWriter, r *http.Request) {
	editor, ok := callerID(w, r)
	if !ok {
		return
	}
	owner, ok := uuidParam(w, r, "ownerId")
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

	item, err := h.familyService.UpdateSharedItem(r.Context(), editor, owner, id, in)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update shared inventory item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}
