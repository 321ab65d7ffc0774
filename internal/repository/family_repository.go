package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pantry-keeper/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrInvitationNotFound      = errors.New("invitation not found or already processed")
	ErrInvitationAlreadyExists = errors.New("an invitation to this email is already pending")
	ErrFamilyMemberNotFound    = errors.New("family member not found")
)

// FamilyRepository stores invitations and the sharing edges they create
type FamilyRepository interface {
	CreateInvitation(ctx context.Context, inv *domain.FamilyInvitation) error
	FindInvitationByID(ctx context.Context, id uuid.UUID) (*domain.FamilyInvitation, error)

	// HasPendingInvitation ignores pending rows that expired before now
	HasPendingInvitation(ctx context.Context, sender uuid.UUID, recipientEmail string, now time.Time) (bool, error)

	// ListReceived returns pending invitations addressed to email that have
	// not expired at now.
	ListReceived(ctx context.Context, email string, now time.Time) ([]domain.FamilyInvitation, error)

	// ListSent reports pending invitations past their expiry as expired
	ListSent(ctx context.Context, sender uuid.UUID, now time.Time) ([]domain.FamilyInvitation, error)

	// ExpireInvitations moves every pending invitation that expired before
	// now to the expired status and returns how many rows changed.
	ExpireInvitations(ctx context.Context, now time.Time) (int64, error)

	// Accept marks a pending invitation accepted and records member as a
	// member of the sender's household in one transaction.
	Accept(ctx context.Context, id uuid.UUID, member uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID) error

	FindMember(ctx context.Context, owner, member uuid.UUID) (*domain.FamilyMember, error)

	// ListMembers returns every edge where user is the owner or the member
	ListMembers(ctx context.Context, user uuid.UUID) ([]domain.FamilyMember, error)

	CountPendingInvitations(ctx context.Context) (int, error)
}

type familyRepository struct {
	db *sql.DB
}

// NewFamilyRepository creates a new instance of FamilyRepository
func NewFamilyRepository(db *sql.DB) FamilyRepository {
	return &familyRepository{db: db}
}

const invitationSelect = `
	SELECT i.id, u.id, u.name, u.email, i.recipient_email, i.status, i.relationship,
	       i.can_view, i.can_edit, i.created_at, i.expires_at
	FROM family_invitations i
	JOIN users u ON u.id = i.sender_id
`

func scanInvitation(row interface{ Scan(...any) error }, inv *domain.FamilyInvitation) error {
	return row.Scan(
		&inv.ID,
		&inv.Sender.ID,
		&inv.Sender.Name,
		&inv.Sender.Email,
		&inv.RecipientEmail,
		&inv.Status,
		&inv.Relationship,
		&inv.Permissions.ViewInventory,
		&inv.Permissions.EditInventory,
		&inv.CreatedAt,
		&inv.ExpiresAt,
	)
}

// CreateInvitation expires the sender's stale pending invitation to the same
// recipient before inserting, so only a live invitation holds the pending slot.
func (r *familyRepository) CreateInvitation(ctx context.Context, inv *domain.FamilyInvitation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE family_invitations
		SET status = 'expired'
		WHERE sender_id = $1 AND recipient_email = $2 AND status = 'pending' AND expires_at <= $3
	`, inv.Sender.ID, inv.RecipientEmail, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to expire stale invitation: %w", err)
	}

	query := `
		INSERT INTO family_invitations
			(id, sender_id, recipient_email, status, relationship, can_view, can_edit, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		inv.ID,
		inv.Sender.ID,
		inv.RecipientEmail,
		inv.Status,
		inv.Relationship,
		inv.Permissions.ViewInventory,
		inv.Permissions.EditInventory,
		inv.CreatedAt,
		inv.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrInvitationAlreadyExists
		}
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *familyRepository) FindInvitationByID(ctx context.Context, id uuid.UUID) (*domain.FamilyInvitation, error) {
	inv := &domain.FamilyInvitation{}
	if err := scanInvitation(r.db.QueryRowContext(ctx, invitationSelect+` WHERE i.id = $1`, id), inv); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}
	return inv, nil
}

func (r *familyRepository) HasPendingInvitation(ctx context.Context, sender uuid.UUID, recipientEmail string, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM family_invitations
			WHERE sender_id = $1 AND recipient_email = $2 AND status = 'pending' AND expires_at > $3
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, sender, recipientEmail, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending invitation: %w", err)
	}
	return exists, nil
}

func (r *familyRepository) ListReceived(ctx context.Context, email string, now time.Time) ([]domain.FamilyInvitation, error) {
	return r.listInvitations(ctx,
		invitationSelect+` WHERE i.recipient_email = $1 AND i.status = 'pending' AND i.expires_at > $2 ORDER BY i.created_at DESC`,
		email, now)
}

func (r *familyRepository) ListSent(ctx context.Context, sender uuid.UUID, now time.Time) ([]domain.FamilyInvitation, error) {
	invitations, err := r.listInvitations(ctx, invitationSelect+` WHERE i.sender_id = $1 ORDER BY i.created_at DESC`, sender)
	if err != nil {
		return nil, err
	}

	for i := range invitations {
		if invitations[i].Status == domain.InvitationPending && invitations[i].Expired(now) {
			invitations[i].Status = domain.InvitationExpired
		}
	}
	return invitations, nil
}

func (r *familyRepository) ExpireInvitations(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE family_invitations SET status = 'expired' WHERE status = 'pending' AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire invitations: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *familyRepository) listInvitations(ctx context.Context, query string, args ...any) ([]domain.FamilyInvitation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	invitations := []domain.FamilyInvitation{}
	for rows.Next() {
		var inv domain.FamilyInvitation
		if err := scanInvitation(rows, &inv); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invitations: %w", err)
	}

	return invitations, nil
}

func (r *familyRepository) Accept(ctx context.Context, id uuid.UUID, member uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		owner        uuid.UUID
		relationship domain.Relationship
		canView      bool
		canEdit      bool
	)
	err = tx.QueryRowContext(ctx, `
		UPDATE family_invitations
		SET status = 'accepted'
		WHERE id = $1 AND status = 'pending'
		RETURNING sender_id, relationship, can_view, can_edit
	`, id).Scan(&owner, &relationship, &canView, &canEdit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("failed to accept invitation: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO family_members (owner_id, member_id, relationship, can_view, can_edit, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (owner_id, member_id)
		DO UPDATE SET relationship = EXCLUDED.relationship, can_view = EXCLUDED.can_view, can_edit = EXCLUDED.can_edit
	`, owner, member, relationship, canView || canEdit, canEdit)
	if err != nil {
		return fmt.Errorf("failed to add family member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *familyRepository) Reject(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE family_invitations SET status = 'rejected' WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("failed to reject invitation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	return expectAffected(rowsAffected, ErrInvitationNotFound)
}

const memberSelect = `
	SELECT o.id, o.name, o.email, m.id, m.name, m.email, f.relationship, f.can_view, f.can_edit, f.created_at
	FROM family_members f
	JOIN users o ON o.id = f.owner_id
	JOIN users m ON m.id = f.member_id
`

func scanMember(row interface{ Scan(...any) error }, fm *domain.FamilyMember) error {
	return row.Scan(
		&fm.Owner.ID,
		&fm.Owner.Name,
		&fm.Owner.Email,
		&fm.Member.ID,
		&fm.Member.Name,
		&fm.Member.Email,
		&fm.Relationship,
		&fm.CanView,
		&fm.CanEdit,
		&fm.CreatedAt,
	)
}

func (r *familyRepository) FindMember(ctx context.Context, owner, member uuid.UUID) (*domain.FamilyMember, error) {
	fm := &domain.FamilyMember{}
	err := scanMember(r.db.QueryRowContext(ctx, memberSelect+` WHERE f.owner_id = $1 AND f.member_id = $2`, owner, member), fm)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFamilyMemberNotFound
		}
		return nil, fmt.Errorf("failed to find family member: %w", err)
	}
	return fm, nil
}

func (r *familyRepository) ListMembers(ctx context.Context, user uuid.UUID) ([]domain.FamilyMember, error) {
	rows, err := r.db.QueryContext(ctx, memberSelect+` WHERE f.owner_id = $1 OR f.member_id = $1 ORDER BY f.created_at`, user)
	if err != nil {
		return nil, fmt.Errorf("failed to list family members: %w", err)
	}
	defer rows.Close()

	members := []domain.FamilyMember{}
	for rows.Next() {
		var fm domain.FamilyMember
		if err := scanMember(rows, &fm); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		members = append(members, fm)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating family members: %w", err)
	}

	return members, nil
}

func (r *familyRepository) CountPendingInvitations(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM family_invitations WHERE status = 'pending' AND expires_at > NOW()`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending invitations: %w", err)
	}
	return n, nil
}
