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

var ErrInvalidLocation = errors.New("location must be one of Pantry, Fridge, Freezer, Cupboard, Other")

// InventoryInput carries the client-editable fields of an inventory item
type InventoryInput struct {
	Name            string
	Category        string
	Quantity        float64
	TypicalQuantity *float64
	Unit            string
	ExpiryDate      *time.Time
	Location        domain.Location
	Notes           string
}

func (in InventoryInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidName
	}
	if in.Quantity < 0 || (in.TypicalQuantity != nil && *in.TypicalQuantity < 0) {
		return ErrInvalidQuantity
	}
	if in.Location != "" && !in.Location.Valid() {
		return ErrInvalidLocation
	}
	return nil
}

func (in InventoryInput) apply(item *domain.InventoryItem) {
	item.Name = strings.TrimSpace(in.Name)
	item.Category = domain.NormalizeCategory(in.Category)
	item.Quantity = in.Quantity
	item.TypicalQuantity = in.TypicalQuantity
	item.Unit = strings.TrimSpace(in.Unit)
	item.ExpiryDate = in.ExpiryDate
	item.Location = in.Location
	if item.Location == "" {
		item.Location = domain.LocationPantry
	}
	item.Notes = in.Notes
}

// InventoryService manages the items a user has on hand
type InventoryService interface {
	Create(ctx context.Context, owner uuid.UUID, in InventoryInput) (*domain.InventoryItem, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*domain.InventoryItem, error)
	List(ctx context.Context, owner uuid.UUID) ([]domain.InventoryItem, error)
	Update(ctx context.Context, owner, id uuid.UUID, in InventoryInput) (*domain.InventoryItem, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	Report(ctx context.Context, owner uuid.UUID) (*report.InventoryReport, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	aggregator    *report.Aggregator
	now           func() time.Time
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(inventoryRepo repository.InventoryRepository, aggregator *report.Aggregator) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		aggregator:    aggregator,
		now:           time.Now,
	}
}

func (s *inventoryService) Create(ctx context.Context, owner uuid.UUID, in InventoryInput) (*domain.InventoryItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := s.now()
	item := &domain.InventoryItem{
		ID:        uuid.New(),
		OwnerID:   owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(item)

	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	return item, nil
}

func (s *inventoryService) Get(ctx context.Context, owner, id uuid.UUID) (*domain.InventoryItem, error) {
	return s.inventoryRepo.FindByID(ctx, owner, id)
}

func (s *inventoryService) List(ctx context.Context, owner uuid.UUID) ([]domain.InventoryItem, error) {
	return s.inventoryRepo.ListByOwner(ctx, owner)
}

func (s *inventoryService) Update(ctx context.Context, owner, id uuid.UUID, in InventoryInput) (*domain.InventoryItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	item, err := s.inventoryRepo.FindByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	in.apply(item)

	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *inventoryService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	return s.inventoryRepo.Delete(ctx, owner, id)
}

func (s *inventoryService) Report(ctx context.Context, owner uuid.UUID) (*report.InventoryReport, error) {
	inventory, err := s.inventoryRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory items: %w", err)
	}
	return s.aggregator.InventoryReport(owner, inventory), nil
}
