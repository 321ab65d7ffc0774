package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvitationTTL is how long an invitation stays acceptable
const InvitationTTL = 7 * 24 * time.Hour

// InvitationStatus is the lifecycle state of a family invitation
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
	InvitationExpired  InvitationStatus = "expired"
)

// Relationship describes how an invited member relates to the sender
type Relationship string

const (
	RelationshipParent  Relationship = "parent"
	RelationshipChild   Relationship = "child"
	RelationshipSibling Relationship = "sibling"
	RelationshipSpouse  Relationship = "spouse"
	RelationshipOther   Relationship = "other"
)

// Valid reports whether r is a known relationship
func (r Relationship) Valid() bool {
	switch r {
	case RelationshipParent, RelationshipChild, RelationshipSibling, RelationshipSpouse, RelationshipOther:
		return true
	}
	return false
}

// Permissions grants an invited member access to the sender's inventory
type Permissions struct {
	ViewInventory bool `json:"viewInventory"`
	EditInventory bool `json:"editInventory"`
}

// Contact is the public identity of a user shown on invitations and memberships
type Contact struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// FamilyInvitation is a pending or answered request to share inventory
type FamilyInvitation struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	Sender         Contact          `json:"sender"`
	RecipientEmail string           `json:"recipientEmail" db:"recipient_email"`
	Status         InvitationStatus `json:"status" db:"status"`
	Relationship   Relationship     `json:"relationship" db:"relationship"`
	Permissions    Permissions      `json:"permissions"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
	ExpiresAt      time.Time        `json:"expiresAt" db:"expires_at"`
}

// Expired reports whether the invitation can no longer be accepted
func (i FamilyInvitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// FamilyMember is a sharing edge: Member may access Owner's inventory
// according to CanView and CanEdit.
type FamilyMember struct {
	Owner        Contact      `json:"owner"`
	Member       Contact      `json:"member"`
	Relationship Relationship `json:"relationship" db:"relationship"`
	CanView      bool         `json:"canView" db:"can_view"`
	CanEdit      bool         `json:"canEdit" db:"can_edit"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
}
