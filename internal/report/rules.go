package report

import (
	"time"

	"pantry-keeper/internal/domain"
)

const (
	// LowStockRatio is the fraction of the baseline below which an item
	// needs restocking.
	LowStockRatio = 1.0 / lowStockDivisor

	// lowStockDivisor is 1/LowStockRatio. The comparison scales the quantity
	// up instead of the baseline down so 0.6 of 3 stays exactly a fifth.
	lowStockDivisor = 5

	// ExpiryWindow is how close an expiry date must be to count as expiring soon
	ExpiryWindow = 7 * 24 * time.Hour
)

// NeedsRestock reports whether item is below LowStockRatio of its baseline.
// Exactly LowStockRatio is not low.
func NeedsRestock(item domain.InventoryItem) bool {
	return item.Quantity*lowStockDivisor < item.Baseline()
}

// ExpiringSoon reports whether item expires within ExpiryWindow of now.
// Items that have already expired also count. Items without an expiry date
// never do.
func ExpiringSoon(item domain.InventoryItem, now time.Time) bool {
	if item.ExpiryDate == nil {
		return false
	}
	return item.ExpiryDate.Sub(now) < ExpiryWindow
}

// OutOfStock reports whether nothing of item is left
func OutOfStock(item domain.InventoryItem) bool {
	return item.Quantity == 0
}
