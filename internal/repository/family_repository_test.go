package repository

import (
	"context"
	"testing"
	"time"

	"pantry-keeper/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvitation(sender *domain.User, email string, perms domain.Permissions) *domain.FamilyInvitation {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.FamilyInvitation{
		ID:             uuid.New(),
		Sender:         domain.Contact{ID: sender.ID, Name: sender.Name, Email: sender.Email},
		RecipientEmail: email,
		Status:         domain.InvitationPending,
		Relationship:   domain.RelationshipSibling,
		Permissions:    perms,
		CreatedAt:      now,
		ExpiresAt:      now.Add(domain.InvitationTTL),
	}
}

func TestFamilyRepository_InvitationLifecycle(t *testing.T) {
	repo := NewFamilyRepository(testDB)
	ctx := context.Background()
	sender := createTestUser(t, "Sender")
	recipient := createTestUser(t, "Recipient")

	inv := newInvitation(sender, recipient.Email, domain.Permissions{ViewInventory: true, EditInventory: true})
	require.NoError(t, repo.CreateInvitation(ctx, inv))

	pending, err := repo.HasPendingInvitation(ctx, sender.ID, recipient.Email, time.Now())
	require.NoError(t, err)
	assert.True(t, pending)

	duplicate := newInvitation(sender, recipient.Email, domain.Permissions{})
	assert.ErrorIs(t, repo.CreateInvitation(ctx, duplicate), ErrInvitationAlreadyExists)

	received, err := repo.ListReceived(ctx, recipient.Email, time.Now())
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, sender.Name, received[0].Sender.Name)
	assert.True(t, received[0].Permissions.EditInventory)

	expiredView, err := repo.ListReceived(ctx, recipient.Email, time.Now().Add(domain.InvitationTTL+time.Hour))
	require.NoError(t, err)
	assert.Empty(t, expiredView)

	require.NoError(t, repo.Accept(ctx, inv.ID, recipient.ID))
	assert.ErrorIs(t, repo.Accept(ctx, inv.ID, recipient.ID), ErrInvitationNotFound)
	assert.ErrorIs(t, repo.Reject(ctx, inv.ID), ErrInvitationNotFound)

	found, err := repo.FindInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationAccepted, found.Status)

	member, err := repo.FindMember(ctx, sender.ID, recipient.ID)
	require.NoError(t, err)
	assert.True(t, member.CanView)
	assert.True(t, member.CanEdit)
	assert.Equal(t, recipient.Email, member.Member.Email)

	_, err = repo.FindMember(ctx, recipient.ID, sender.ID)
	assert.ErrorIs(t, err, ErrFamilyMemberNotFound)

	for _, user := range []*domain.User{sender, recipient} {
		members, err := repo.ListMembers(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, members, 1)
	}

	sent, err := repo.ListSent(ctx, sender.ID, time.Now())
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, domain.InvitationAccepted, sent[0].Status)
}

func TestFamilyRepository_Reject(t *testing.T) {
	repo := NewFamilyRepository(testDB)
	ctx := context.Background()
	sender := createTestUser(t, "Sender")

	inv := newInvitation(sender, "someone@example.com", domain.Permissions{ViewInventory: true})
	require.NoError(t, repo.CreateInvitation(ctx, inv))

	before, err := repo.CountPendingInvitations(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Reject(ctx, inv.ID))

	after, err := repo.CountPendingInvitations(ctx)
	require.NoError(t, err)
	assert.Equal(t, before-1, after)

	pending, err := repo.HasPendingInvitation(ctx, sender.ID, "someone@example.com", time.Now())
	require.NoError(t, err)
	assert.False(t, pending)

	// a fresh invitation is allowed once the previous one was answered
	require.NoError(t, repo.CreateInvitation(ctx, newInvitation(sender, "someone@example.com", domain.Permissions{})))
}

func TestFamilyRepository_ExpiredInvitationFreesPendingSlot(t *testing.T) {
	repo := NewFamilyRepository(testDB)
	ctx := context.Background()
	sender := createTestUser(t, "Sender")
	recipient := createTestUser(t, "Recipient")

	stale := newInvitation(sender, recipient.Email, domain.Permissions{ViewInventory: true})
	stale.CreatedAt = stale.CreatedAt.Add(-domain.InvitationTTL - time.Hour)
	stale.ExpiresAt = stale.CreatedAt.Add(domain.InvitationTTL)
	require.NoError(t, repo.CreateInvitation(ctx, stale))

	pending, err := repo.HasPendingInvitation(ctx, sender.ID, recipient.Email, time.Now())
	require.NoError(t, err)
	assert.False(t, pending, "an expired invitation must not count as pending")

	sent, err := repo.ListSent(ctx, sender.ID, time.Now())
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, domain.InvitationExpired, sent[0].Status)

	fresh := newInvitation(sender, recipient.Email, domain.Permissions{ViewInventory: true})
	require.NoError(t, repo.CreateInvitation(ctx, fresh))

	found, err := repo.FindInvitationByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationExpired, found.Status)

	require.NoError(t, repo.Accept(ctx, fresh.ID, recipient.ID))
}

func TestFamilyRepository_ExpireInvitations(t *testing.T) {
	repo := NewFamilyRepository(testDB)
	ctx := context.Background()
	sender := createTestUser(t, "Sender")

	live := newInvitation(sender, "live@example.com", domain.Permissions{})
	require.NoError(t, repo.CreateInvitation(ctx, live))

	stale := newInvitation(sender, "stale@example.com", domain.Permissions{})
	stale.CreatedAt = stale.CreatedAt.Add(-domain.InvitationTTL - time.Hour)
	stale.ExpiresAt = stale.CreatedAt.Add(domain.InvitationTTL)
	require.NoError(t, repo.CreateInvitation(ctx, stale))

	n, err := repo.ExpireInvitations(ctx, time.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	found, err := repo.FindInvitationByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationExpired, found.Status)

	found, err = repo.FindInvitationByID(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationPending, found.Status)

	assert.ErrorIs(t, repo.Accept(ctx, stale.ID, sender.ID), ErrInvitationNotFound)
}
