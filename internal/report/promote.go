package report

import (
	"fmt"
	"strconv"
	"time"

	"pantry-keeper/internal/domain"
)

// DefaultShelfLife is the expiry offset given to items promoted from the grocery list
const DefaultShelfLife = 7 * 24 * time.Hour

// DraftInventoryFromGrocery pre-fills an inventory item from a grocery item.
// The draft is not persisted.
func DraftInventoryFromGrocery(item domain.GroceryItem, now time.Time) domain.InventoryDraft {
	price := "N/A"
	if item.Price > 0 {
		price = strconv.FormatFloat(item.Price, 'f', -1, 64)
	}

	return domain.InventoryDraft{
		Name:       item.Name,
		Category:   item.Category,
		Quantity:   item.Quantity,
		Unit:       item.Unit,
		ExpiryDate: now.Add(DefaultShelfLife),
		Location:   domain.LocationPantry,
		Notes:      fmt.Sprintf("Added from grocery list. Original price: %s per %s", price, item.Unit),
	}
}
