package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pantry-keeper/internal/domain"
	"pantry-keeper/internal/middleware"
	"pantry-keeper/internal/report"
	"pantry-keeper/internal/repository"
	"pantry-keeper/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
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

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
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
	return 0, nil
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
	var items []domain.GroceryItem
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
	var items []domain.InventoryItem
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

// stubFamilyService returns err from every call, or canned values when err is nil
type stubFamilyService struct {
	err     error
	invited service.InvitationInput
	items   []domain.InventoryItem
}

func (s *stubFamilyService) Invite(ctx context.Context, sender uuid.UUID, in service.InvitationInput) (*domain.FamilyInvitation, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.invited = in
	return &domain.FamilyInvitation{
		ID:             uuid.New(),
		Sender:         domain.Contact{ID: sender},
		RecipientEmail: in.RecipientEmail,
		Status:         domain.InvitationPending,
		Relationship:   in.Relationship,
		Permissions:    in.Permissions,
	}, nil
}

func (s *stubFamilyService) ListInvitations(ctx context.Context, user uuid.UUID) (*service.InvitationList, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.InvitationList{}, nil
}

func (s *stubFamilyService) Accept(ctx context.Context, user, invitationID uuid.UUID) error {
	return s.err
}

func (s *stubFamilyService) Reject(ctx context.Context, user, invitationID uuid.UUID) error {
	return s.err
}

func (s *stubFamilyService) ListMembers(ctx context.Context, user uuid.UUID) ([]domain.FamilyMember, error) {
	return nil, s.err
}

func (s *stubFamilyService) SharedInventory(ctx context.Context, viewer, owner uuid.UUID) ([]domain.InventoryItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func (s *stubFamilyService) SharedInventoryReport(ctx context.Context, viewer, owner uuid.UUID) (*report.InventoryReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return report.ComputeInventoryReport(owner, s.items), nil
}

func (s *stubFamilyService) UpdateSharedItem(ctx context.Context, editor, owner, itemID uuid.UUID, in service.InventoryInput) (*domain.InventoryItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.InventoryItem{ID: itemID, OwnerID: owner, Name: in.Name, Quantity: in.Quantity}, nil
}

func (s *stubFamilyService) ExpireStaleInvitations(ctx context.Context) (int64, error) {
	return 0, s.err
}

type stubAdminService struct{}

func (stubAdminService) Stats(ctx context.Context) (*service.Stats, error) {
	return &service.Stats{Users: 3, GroceryItems: 7, InventoryItems: 5, PendingInvitations: 1}, nil
}

// testAPI is a router wired the way the server wires it, over in-memory repositories
type testAPI struct {
	router    chi.Router
	groceries *mockGroceryRepository
	inventory *mockInventoryRepository
	family    *stubFamilyService
}

func newTestAPI() *testAPI {
	logger := zap.NewNop()
	groceries := newMockGroceryRepository()
	inventory := newMockInventoryRepository()
	family := &stubFamilyService{}
	aggregator := report.NewAggregator()

	userService := service.NewUserService(newMockUserRepository(), newMockRefreshTokenRepository(), service.AuthConfig{
		JWTSecret:             testSecret,
		InventoryManagerEmail: "grocery@admin.com",
	})
	inventoryService := service.NewInventoryService(inventory, aggregator)

	r := chi.NewRouter()
	auth := middleware.AuthMiddleware(testSecret, logger)
	passthrough := func(next http.Handler) http.Handler { return next }

	NewUserHandler(userService, logger).RegisterRoutes(r, auth, passthrough)
	NewGroceryHandler(service.NewGroceryService(groceries, inventory, aggregator), logger).RegisterRoutes(r, auth)
	NewInventoryHandler(inventoryService, logger).RegisterRoutes(r, auth)
	NewFamilyHandler(family, logger).RegisterRoutes(r, auth)
	NewAdminHandler(stubAdminService{}, logger).RegisterRoutes(r, auth)

	return &testAPI{router: r, groceries: groceries, inventory: inventory, family: family}
}

// token mints an access token for a user that need not exist
func token(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// do sends body as JSON (raw when it is a string) with an optional bearer token
func (a *testAPI) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
