package service

import (
	"context"
	"testing"
	"time"

	"pantry-keeper/internal/domain"
	"pantry-keeper/internal/report"
	"pantry-keeper/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serviceNow = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return serviceNow }

func newTestGroceryService() (*groceryService, *mockGroceryRepository, *mockInventoryRepository) {
	groceries := newMockGroceryRepository()
	inventory := newMockInventoryRepository()
	svc := NewGroceryService(groceries, inventory, report.NewAggregator(report.WithClock(clock))).(*groceryService)
	svc.now = clock
	return svc, groceries, inventory
}

// Feature: pantry-platform, Property 7: Stored total cost tracks price and quantity
func TestProperty_GroceryTotalCostIsMaintained(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("totalCost equals price × quantity after create and update", prop.ForAll(
		func(quantity, price, newQuantity, newPrice float64) bool {
			svc, _, _ := newTestGroceryService()
			ctx := context.Background()
			owner := uuid.New()

			item, err := svc.Create(ctx, owner, GroceryInput{Name: "Apples", Quantity: quantity, Price: price})
			if err != nil || item.TotalCost != quantity*price {
				return false
			}

			updated, err := svc.Update(ctx, owner, item.ID, GroceryInput{Name: "Apples", Quantity: newQuantity, Price: newPrice})
			if err != nil {
				return false
			}

			stored, err := svc.Get(ctx, owner, item.ID)
			return err == nil && updated.TotalCost == newQuantity*newPrice && stored.TotalCost == updated.TotalCost
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 500),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 500),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestGroceryService_CreateDefaults(t *testing.T) {
	svc, _, _ := newTestGroceryService()

	item, err := svc.Create(context.Background(), uuid.New(), GroceryInput{Name: "  Soap ", Category: "  ", Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, "Soap", item.Name)
	assert.Equal(t, domain.UncategorizedCategory, item.Category)
	assert.Zero(t, item.Price)
	assert.Zero(t, item.TotalCost)
	assert.Equal(t, serviceNow, item.CreatedAt)
}

func TestGroceryService_RejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestGroceryService()
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), GroceryInput{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.Create(ctx, uuid.New(), GroceryInput{Name: "Salt", Quantity: -1})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Create(ctx, uuid.New(), GroceryInput{Name: "Salt", Price: -0.5})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestGroceryService_OtherOwnersItemsAreNotFound(t *testing.T) {
	svc, _, _ := newTestGroceryService()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	item, err := svc.Create(ctx, alice, GroceryInput{Name: "Cheese", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, item.ID)
	assert.ErrorIs(t, err, repository.ErrGroceryItemNotFound)

	_, err = svc.Update(ctx, bob, item.ID, GroceryInput{Name: "Mine now"})
	assert.ErrorIs(t, err, repository.ErrGroceryItemNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, bob, item.ID), repository.ErrGroceryItemNotFound)

	_, err = svc.Promote(ctx, bob, item.ID)
	assert.ErrorIs(t, err, repository.ErrGroceryItemNotFound)
}

func TestGroceryService_ReportUsesOwnersInventory(t *testing.T) {
	svc, _, inventory := newTestGroceryService()
	ctx := context.Background()
	owner, neighbour := uuid.New(), uuid.New()

	_, err := svc.Create(ctx, owner, GroceryInput{Name: "Milk", Category: "Dairy", Quantity: 3, Unit: "unit", Price: 100})
	require.NoError(t, err)

	require.NoError(t, inventory.Create(ctx, &domain.InventoryItem{ID: uuid.New(), OwnerID: owner, Name: "milk", Quantity: 1}))
	require.NoError(t, inventory.Create(ctx, &domain.InventoryItem{ID: uuid.New(), OwnerID: neighbour, Name: "Milk", Quantity: 10}))

	r, err := svc.Report(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, 1, r.TotalItems)
	assert.Equal(t, 300.0, r.TotalCost)
	assert.Equal(t, []report.InventoryNeed{{Name: "Milk", Needed: 2, Unit: "unit"}}, r.InventoryNeeds)
	assert.Equal(t, serviceNow, r.LastUpdated)
}

func TestGroceryService_Promote(t *testing.T) {
	svc, _, inventory := newTestGroceryService()
	ctx := context.Background()
	owner := uuid.New()

	item, err := svc.Create(ctx, owner, GroceryInput{Name: "Beans", Category: "Tins", Quantity: 4, Unit: "can", Price: 0.85})
	require.NoError(t, err)

	draft, err := svc.Promote(ctx, owner, item.ID)
	require.NoError(t, err)

	assert.Equal(t, "Beans", draft.Name)
	assert.Equal(t, serviceNow.Add(report.DefaultShelfLife), draft.ExpiryDate)
	assert.Equal(t, "Added from grocery list. Original price: 0.85 per can", draft.Notes)

	count, _ := inventory.Count(ctx)
	assert.Zero(t, count, "promotion must not persist an inventory item")
}
