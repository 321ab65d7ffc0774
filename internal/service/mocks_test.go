package service

import (
	"context"
	"sort"
	"time"

	"pantry-keeper/internal/domain"
	"pantry-keeper/internal/repository"

	"github.com/google/uuid"
)

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; !exists {
		return repository.ErrUserNotFound
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for email, user := range m.users {
		if user.ID == id {
			delete(m.users, email)
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

// add stores a user directly, bypassing registration
func (m *mockUserRepository) add(name, email string) *domain.User {
	user := &domain.User{ID: uuid.New(), Name: name, Email: email, Role: domain.RoleUser}
	m.users[email] = user
	return user
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists || refreshToken.Revoked {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for key, token := range m.tokens {
		if token.ExpiresAt.Before(now) {
			delete(m.tokens, key)
			n++
		}
	}
	return n, nil
}

type mockGroceryRepository struct {
	items map[uuid.UUID]domain.GroceryItem
	order []uuid.UUID
}

func newMockGroceryRepository() *mockGroceryRepository {
	return &mockGroceryRepository{items: make(map[uuid.UUID]domain.GroceryItem)}
}

func (m *mockGroceryRepository) Create(ctx context.Context, item *domain.GroceryItem) error {
	m.items[item.ID] = *item
	m.order = append(m.order, item.ID)
	return nil
}

func (m *mockGroceryRepository) Update(ctx context.Context, item *domain.GroceryItem) error {
	existing, ok := m.items[item.ID]
	if !ok || existing.OwnerID != item.OwnerID {
		return repository.ErrGroceryItemNotFound
	}
	m.items[item.ID] = *item
	return nil
}

func (m *mockGroceryRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	existing, ok := m.items[id]
	if !ok || existing.OwnerID != owner {
		return repository.ErrGroceryItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockGroceryRepository) FindByID(ctx context.Context, owner, id uuid.UUID) (*domain.GroceryItem, error) {
	item, ok := m.items[id]
	if !ok || item.OwnerID != owner {
		return nil, repository.ErrGroceryItemNotFound
	}
	return &item, nil
}

func (m *mockGroceryRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]domain.GroceryItem, error) {
	items := []domain.GroceryItem{}
	for _, id := range m.order {
		if item, ok := m.items[id]; ok && item.OwnerID == owner {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *mockGroceryRepository) Count(ctx context.Context) (int, error) {
	return len(m.items), nil
}

type mockInventoryRepository struct {
	items map[uuid.UUID]domain.InventoryItem
	order []uuid.UUID
}

func newMockInventoryRepository() *mockInventoryRepository {
	return &mockInventoryRepository{items: make(map[uuid.UUID]domain.InventoryItem)}
}

func (m *mockInventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	m.items[item.ID] = *item
	m.order = append(m.order, item.ID)
	return nil
}

func (m *mockInventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	existing, ok := m.items[item.ID]
	if !ok || existing.OwnerID != item.OwnerID {
		return repository.ErrInventoryItemNotFound
	}
	m.items[item.ID] = *item
	return nil
}

func (m *mockInventoryRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	existing, ok := m.items[id]
	if !ok || existing.OwnerID != owner {
		return repository.ErrInventoryItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockInventoryRepository) FindByID(ctx context.Context, owner, id uuid.UUID) (*domain.InventoryItem, error) {
	item, ok := m.items[id]
	if !ok || item.OwnerID != owner {
		return nil, repository.ErrInventoryItemNotFound
	}
	return &item, nil
}

func (m *mockInventoryRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]domain.InventoryItem, error) {
	items := []domain.InventoryItem{}
	for _, id := range m.order {
		if item, ok := m.items[id]; ok && item.OwnerID == owner {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *mockInventoryRepository) Count(ctx context.Context) (int, error) {
	return len(m.items), nil
}

type memberKey struct{ owner, member uuid.UUID }

type mockFamilyRepository struct {
	invitations map[uuid.UUID]*domain.FamilyInvitation
	members     map[memberKey]domain.FamilyMember
}

func newMockFamilyRepository() *mockFamilyRepository {
	return &mockFamilyRepository{
		invitations: make(map[uuid.UUID]*domain.FamilyInvitation),
		members:     make(map[memberKey]domain.FamilyMember),
	}
}

func (m *mockFamilyRepository) CreateInvitation(ctx context.Context, inv *domain.FamilyInvitation) error {
	for _, existing := range m.invitations {
		if existing.Sender.ID != inv.Sender.ID || existing.RecipientEmail != inv.RecipientEmail || existing.Status != domain.InvitationPending {
			continue
		}
		if !existing.Expired(inv.CreatedAt) {
			return repository.ErrInvitationAlreadyExists
		}
		existing.Status = domain.InvitationExpired
	}
	copied := *inv
	m.invitations[inv.ID] = &copied
	return nil
}

func (m *mockFamilyRepository) FindInvitationByID(ctx context.Context, id uuid.UUID) (*domain.FamilyInvitation, error) {
	inv, ok := m.invitations[id]
	if !ok {
		return nil, repository.ErrInvitationNotFound
	}
	copied := *inv
	return &copied, nil
}

func (m *mockFamilyRepository) HasPendingInvitation(ctx context.Context, sender uuid.UUID, email string, now time.Time) (bool, error) {
	for _, inv := range m.invitations {
		if inv.Sender.ID == sender && inv.RecipientEmail == email && inv.Status == domain.InvitationPending && !inv.Expired(now) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFamilyRepository) ListReceived(ctx context.Context, email string, now time.Time) ([]domain.FamilyInvitation, error) {
	return m.filter(func(inv *domain.FamilyInvitation) bool {
		return inv.RecipientEmail == email && inv.Status == domain.InvitationPending && !inv.Expired(now)
	}), nil
}

func (m *mockFamilyRepository) ListSent(ctx context.Context, sender uuid.UUID, now time.Time) ([]domain.FamilyInvitation, error) {
	sent := m.filter(func(inv *domain.FamilyInvitation) bool { return inv.Sender.ID == sender })
	for i := range sent {
		if sent[i].Status == domain.InvitationPending && sent[i].Expired(now) {
			sent[i].Status = domain.InvitationExpired
		}
	}
	return sent, nil
}

func (m *mockFamilyRepository) ExpireInvitations(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for _, inv := range m.invitations {
		if inv.Status == domain.InvitationPending && inv.Expired(now) {
			inv.Status = domain.InvitationExpired
			n++
		}
	}
	return n, nil
}

func (m *mockFamilyRepository) filter(keep func(*domain.FamilyInvitation) bool) []domain.FamilyInvitation {
	out := []domain.FamilyInvitation{}
	for _, inv := range m.invitations {
		if keep(inv) {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockFamilyRepository) Accept(ctx context.Context, id, member uuid.UUID) error {
	inv, ok := m.invitations[id]
	if !ok || inv.Status != domain.InvitationPending {
		return repository.ErrInvitationNotFound
	}
	inv.Status = domain.InvitationAccepted
	m.members[memberKey{inv.Sender.ID, member}] = domain.FamilyMember{
		Owner:        inv.Sender,
		Member:       domain.Contact{ID: member},
		Relationship: inv.Relationship,
		CanView:      inv.Permissions.ViewInventory || inv.Permissions.EditInventory,
		CanEdit:      inv.Permissions.EditInventory,
	}
	return nil
}

func (m *mockFamilyRepository) Reject(ctx context.Context, id uuid.UUID) error {
	inv, ok := m.invitations[id]
	if !ok || inv.Status != domain.InvitationPending {
		return repository.ErrInvitationNotFound
	}
	inv.Status = domain.InvitationRejected
	return nil
}

func (m *mockFamilyRepository) FindMember(ctx context.Context, owner, member uuid.UUID) (*domain.FamilyMember, error) {
	fm, ok := m.members[memberKey{owner, member}]
	if !ok {
		return nil, repository.ErrFamilyMemberNotFound
	}
	return &fm, nil
}

func (m *mockFamilyRepository) ListMembers(ctx context.Context, user uuid.UUID) ([]domain.FamilyMember, error) {
	out := []domain.FamilyMember{}
	for key, fm := range m.members {
		if key.owner == user || key.member == user {
			out = append(out, fm)
		}
	}
	return out, nil
}

func (m *mockFamilyRepository) CountPendingInvitations(ctx context.Context) (int, error) {
	n := 0
	for _, inv := range m.invitations {
		if inv.Status == domain.InvitationPending {
			n++
		}
	}
	return n, nil
}

type recordingMailer struct {
	configured bool
	err        error
	sent       []domain.FamilyInvitation
}

func (m *recordingMailer) Configured() bool { return m.configured }

func (m *recordingMailer) SendInvitation(ctx context.Context, inv domain.FamilyInvitation) error {
	m.sent = append(m.sent, inv)
	return m.err
}
