package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pantry-keeper/internal/domain"
	"pantry-keeper/internal/report"
	"pantry-keeper/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidName     = errors.New("name is required")
	ErrInvalidQuantity = errors.New("quantity must not be negative")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

// GroceryInput carries the client-editable fields of a grocery item
type GroceryInput struct {
	Name      string
	Category  string
	Quantity  float64
	Unit      string
	Price     float64
	StoreName string
}

func (in GroceryInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidName
	}
	if in.Quantity < 0 {
		return ErrInvalidQuantity
	}
	if in.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// GroceryService manages a user's grocery list
type GroceryService interface {
	Create(ctx context.Context, owner uuid.UUID, in GroceryInput) (*domain.GroceryItem, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*domain.GroceryItem, error)
	List(ctx context.Context, owner uuid.UUID) ([]domain.GroceryItem, error)
	Update(ctx context.Context, owner, id uuid.UUID, in GroceryInput) (*domain.GroceryItem, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	Report(ctx context.Context, owner uuid.UUID) (*report.GroceryReport, error)

	// Promote drafts an inventory item from a grocery item without saving it
	Promote(ctx context.Context, owner, id uuid.UUID) (domain.InventoryDraft, error)
}

type groceryService struct {
	groceryRepo   repository.GroceryRepository
	inventoryRepo repository.InventoryRepository
	aggregator    *report.Aggregator
	now           func() time.Time
}

// NewGroceryService creates a new instance of GroceryService
func NewGroceryService(
	groceryRepo repository.GroceryRepository,
	inventoryRepo repository.InventoryRepository,
	aggregator *report.Aggregator,
) GroceryService {
	return &groceryService{
		groceryRepo:   groceryRepo,
		inventoryRepo: inventoryRepo,
		aggregator:    aggregator,
		now:           time.Now,
	}
}

// apply copies in onto item and refreshes the denormalized total
func (in GroceryInput) apply(item *domain.GroceryItem) {
	item.Name = strings.TrimSpace(in.Name)
	item.Category = domain.NormalizeCategory(in.Category)
	item.Quantity = in.Quantity
	item.Unit = strings.TrimSpace(in.Unit)
	item.Price = in.Price
	item.StoreName = strings.TrimSpace(in.StoreName)
	item.TotalCost = item.Cost()
}

func (s *groceryService) Create(ctx context.Context, owner uuid.UUID, in GroceryInput) (*domain.GroceryItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := s.now()
	item := &domain.GroceryItem{
		ID:        uuid.New(),
		OwnerID:   owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(item)

	if err := s.groceryRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create grocery item: %w", err)
	}

	return item, nil
}

func (s *groceryService) Get(ctx context.Context, owner, id uuid.UUID) (*domain.GroceryItem, error) {
	return s.groceryRepo.FindByID(ctx, owner, id)
}

func (s *groceryService) List(ctx context.Context, owner uuid.UUID) ([]domain.GroceryItem, error) {
	return s.groceryRepo.ListByOwner(ctx, owner)
}

func (s *groceryService) Update(ctx context.Context, owner, id uuid.UUID, in GroceryInput) (*domain.GroceryItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	item, err := s.groceryRepo.FindByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	in.apply(item)

	if err := s.groceryRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *groceryService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	return s.groceryRepo.Delete(ctx, owner, id)
}

func (s *groceryService) Report(ctx context.Context, owner uuid.UUID) (*report.GroceryReport, error) {
	groceries, err := s.groceryRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load grocery items: %w", err)
	}

	inventory, err := s.inventoryRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory items: %w", err)
	}

	return s.aggregator.GroceryReport(owner, groceries, inventory), nil
}

func (s *groceryService) Promote(ctx context.Context, owner, id uuid.UUID) (domain.InventoryDraft, error) {
	item, err := s.groceryRepo.FindByID(ctx, owner, id)
	if err != nil {
		return domain.InventoryDraft{}, err
	}
	return report.DraftInventoryFromGrocery(*item, s.now()), nil
}
