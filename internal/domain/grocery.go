package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UncategorizedCategory is the category assigned to items without one
const UncategorizedCategory = "Uncategorized"

// GroceryItem represents an entry on a user's grocery list
type GroceryItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"owner" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	Quantity  float64   `json:"quantity" db:"quantity"`
	Unit      string    `json:"unit" db:"unit"`
	Price     float64   `json:"price" db:"price"`
	StoreName string    `json:"storeName,omitempty" db:"store_name"`
	TotalCost float64   `json:"totalCost" db:"total_cost"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Cost returns price × quantity
func (g GroceryItem) Cost() float64 {
	return g.Price * g.Quantity
}

// NormalizeCategory substitutes UncategorizedCategory for an empty or
// whitespace-only category. Any other value is returned unchanged.
func NormalizeCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return UncategorizedCategory
	}
	return category
}
