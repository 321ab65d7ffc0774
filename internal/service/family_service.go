package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pantry-keeper/internal/domain"
	"pantry-keeper/internal/report"
	"pantry-keeper/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmailRequired       = errors.New("recipient email is required")
	ErrSelfInvitation      = errors.New("you cannot invite yourself")
	ErrInvalidRelationship = errors.New("relationship must be one of parent, child, sibling, spouse, other")
	ErrForbidden           = errors.New("insufficient family permissions")
)

// InvitationMailer notifies invitation recipients
type InvitationMailer interface {
	Configured() bool
	SendInvitation(ctx context.Context, inv domain.FamilyInvitation) error
}

// InvitationInput is a request to share inventory with another person
type InvitationInput struct {
	RecipientEmail string
	Relationship   domain.Relationship
	Permissions    domain.Permissions
}

// InvitationList splits a user's invitations by direction
type InvitationList struct {
	Received []domain.FamilyInvitation `json:"received"`
	Sent     []domain.FamilyInvitation `json:"sent"`
}

// FamilyService handles invitations and access to a family member's inventory
type FamilyService interface {
	Invite(ctx context.Context, sender uuid.UUID, in InvitationInput) (*domain.FamilyInvitation, error)
	ListInvitations(ctx context.Context, user uuid.UUID) (*InvitationList, error)
	Accept(ctx context.Context, user, invitationID uuid.UUID) error
	Reject(ctx context.Context, user, invitationID uuid.UUID) error
	ListMembers(ctx context.Context, user uuid.UUID) ([]domain.FamilyMember, error)

	// SharedInventory, SharedInventoryReport and UpdateSharedItem act on
	// owner's inventory on behalf of viewer and fail with ErrForbidden when
	// the membership does not grant the needed permission.
	SharedInventory(ctx context.Context, viewer, owner uuid.UUID) ([]domain.InventoryItem, error)
	SharedInventoryReport(ctx context.Context, viewer, owner uuid.UUID) (*report.InventoryReport, error)
	UpdateSharedItem(ctx context.Context, editor, owner, itemID uuid.UUID, in InventoryInput) (*domain.InventoryItem, error)

	// ExpireStaleInvitations marks pending invitations past their TTL expired
	ExpireStaleInvitations(ctx context.Context) (int64, error)
}

type familyService struct {
	userRepo   repository.UserRepository
	familyRepo repository.FamilyRepository
	inventory  InventoryService
	mailer     InvitationMailer
	logger     *zap.Logger
	now        func() time.Time
}

// NewFamilyService creates a new instance of FamilyService. mailer may be nil.
func NewFamilyService(
	userRepo repository.UserRepository,
	familyRepo repository.FamilyRepository,
	inventory InventoryService,
	mailer InvitationMailer,
	logger *zap.Logger,
) FamilyService {
	return &familyService{
		userRepo:   userRepo,
		familyRepo: familyRepo,
		inventory:  inventory,
		mailer:     mailer,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *familyService) Invite(ctx context.Context, senderID uuid.UUID, in InvitationInput) (*domain.FamilyInvitation, error) {
	email := normalizeEmail(in.RecipientEmail)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !in.Relationship.Valid() {
		return nil, ErrInvalidRelationship
	}

	sender, err := s.userRepo.FindByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find sender: %w", err)
	}
	if sender.Email == email {
		return nil, ErrSelfInvitation
	}

	now := s.now()
	pending, err := s.familyRepo.HasPendingInvitation(ctx, sender.ID, email, now)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, repository.ErrInvitationAlreadyExists
	}

	perms := in.Permissions
	if perms.EditInventory {
		perms.ViewInventory = true
	}

	inv := &domain.FamilyInvitation{
		ID:             uuid.New(),
		Sender:         domain.Contact{ID: sender.ID, Name: sender.Name, Email: sender.Email},
		RecipientEmail: email,
		Status:         domain.InvitationPending,
		Relationship:   in.Relationship,
		Permissions:    perms,
		CreatedAt:      now,
		ExpiresAt:      now.Add(domain.InvitationTTL),
	}

	if err := s.familyRepo.CreateInvitation(ctx, inv); err != nil {
		return nil, err
	}

	s.notify(ctx, *inv)

	return inv, nil
}

// notify sends the invitation e-mail. Delivery failures are logged, never returned.
func (s *familyService) notify(ctx context.Context, inv domain.FamilyInvitation) {
	if s.mailer == nil || !s.mailer.Configured() {
		return
	}
	if err := s.mailer.SendInvitation(ctx, inv); err != nil {
		s.logger.Warn("Failed to send invitation email",
			zap.String("invitation_id", inv.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *familyService) ListInvitations(ctx context.Context, userID uuid.UUID) (*InvitationList, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	now := s.now()
	received, err := s.familyRepo.ListReceived(ctx, user.Email, now)
	if err != nil {
		return nil, err
	}

	sent, err := s.familyRepo.ListSent(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}

	return &InvitationList{Received: received, Sent: sent}, nil
}

func (s *familyService) ExpireStaleInvitations(ctx context.Context) (int64, error) {
	return s.familyRepo.ExpireInvitations(ctx, s.now())
}

// addressedTo loads an invitation that user may still answer
func (s *familyService) addressedTo(ctx context.Context, userID, invitationID uuid.UUID) (*domain.FamilyInvitation, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	inv, err := s.familyRepo.FindInvitationByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	if inv.RecipientEmail != user.Email || inv.Status != domain.InvitationPending || inv.Expired(s.now()) {
		return nil, repository.ErrInvitationNotFound
	}

	return inv, nil
}

func (s *familyService) Accept(ctx context.Context, userID, invitationID uuid.UUID) error {
	inv, err := s.addressedTo(ctx, userID, invitationID)
	if err != nil {
		return err
	}
	return s.familyRepo.Accept(ctx, inv.ID, userID)
}

func (s *familyService) Reject(ctx context.Context, userID, invitationID uuid.UUID) error {
	inv, err := s.addressedTo(ctx, userID, invitationID)
	if err != nil {
		return err
	}
	return s.familyRepo.Reject(ctx, inv.ID)
}

func (s *familyService) ListMembers(ctx context.Context, userID uuid.UUID) ([]domain.FamilyMember, error) {
	return s.familyRepo.ListMembers(ctx, userID)
}

// authorize checks the edge from owner to member. A user always has full
// access to their own inventory.
func (s *familyService) authorize(ctx context.Context, member, owner uuid.UUID, needEdit bool) error {
	if member == owner {
		return nil
	}

	edge, err := s.familyRepo.FindMember(ctx, owner, member)
	if err != nil {
		if errors.Is(err, repository.ErrFamilyMemberNotFound) {
			return ErrForbidden
		}
		return err
	}

	if needEdit && !edge.CanEdit {
		return ErrForbidden
	}
	if !edge.CanView && !edge.CanEdit {
		return ErrForbidden
	}
	return nil
}

func (s *familyService) SharedInventory(ctx context.Context, viewer, owner uuid.UUID) ([]domain.InventoryItem, error) {
	if err := s.authorize(ctx, viewer, owner, false); err != nil {
		return nil, err
	}
	return s.inventory.List(ctx, owner)
}

func (s *familyService) SharedInventoryReport(ctx context.Context, viewer, owner uuid.UUID) (*report.InventoryReport, error) {
	if err := s.authorize(ctx, viewer, owner, false); err != nil {
		return nil, err
	}
	return s.inventory.Report(ctx, owner)
}

func (s *familyService) UpdateSharedItem(ctx context.Context, editor, owner, itemID uuid.UUID, in InventoryInput) (*domain.InventoryItem, error) {
	if err := s.authorize(ctx, editor, owner, true); err != nil {
		return nil, err
	}
	return s.inventory.Update(ctx, owner, itemID, in)
}
