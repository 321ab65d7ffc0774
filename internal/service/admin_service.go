package service

import (
	"context"
	"fmt"

	"pantry-keeper/internal/repository"
)

// Stats are store-wide totals for operators
type Stats struct {
	Users              int `json:"users"`
	GroceryItems       int `json:"groceryItems"`
	InventoryItems     int `json:"inventoryItems"`
	PendingInvitations int `json:"pendingInvitations"`
}

type AdminService interface {
	Stats(ctx context.Context) (*Stats, error)
}

type adminService struct {
	userRepo      repository.UserRepository
	groceryRepo   repository.GroceryRepository
	inventoryRepo repository.InventoryRepository
	familyRepo    repository.FamilyRepository
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(
	userRepo repository.UserRepository,
	groceryRepo repository.GroceryRepository,
	inventoryRepo repository.InventoryRepository,
	familyRepo repository.FamilyRepository,
) AdminService {
	return &adminService{
		userRepo:      userRepo,
		groceryRepo:   groceryRepo,
		inventoryRepo: inventoryRepo,
		familyRepo:    familyRepo,
	}
}

func (s *adminService) Stats(ctx context.Context) (*Stats, error) {
	var (
		stats Stats
		err   error
	)

	if stats.Users, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}
	if stats.GroceryItems, err = s.groceryRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}
	if stats.InventoryItems, err = s.inventoryRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}
	if stats.PendingInvitations, err = s.familyRepo.CountPendingInvitations(ctx); err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}

	return &stats, nil
}
