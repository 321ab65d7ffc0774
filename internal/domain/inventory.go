package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location is where an inventory item is stored
type Location string

const (
	LocationPantry   Location = "Pantry"
	LocationFridge   Location = "Fridge"
	LocationFreezer  Location = "Freezer"
	LocationCupboard Location = "Cupboard"
	LocationOther    Location = "Other"
)

// Locations lists every valid storage location
var Locations = []Location{LocationPantry, LocationFridge, LocationFreezer, LocationCupboard, LocationOther}

// Valid reports whether l is one of the known locations
func (l Location) Valid() bool {
	for _, known := range Locations {
		if l == known {
			return true
		}
	}
	return false
}

// InventoryItem represents an item currently on hand
type InventoryItem struct {
	ID       uuid.UUID `json:"id" db:"id"`
	OwnerID  uuid.UUID `json:"owner" db:"owner_id"`
	Name     string    `json:"name" db:"name"`
	Category string    `json:"category" db:"category"`
	Quantity float64   `json:"quantity" db:"quantity"`

	// TypicalQuantity is the "full stock" baseline. Nil means the current
	// quantity is the baseline.
	TypicalQuantity *float64 `json:"typicalQuantity,omitempty" db:"typical_quantity"`

	Unit       string     `json:"unit" db:"unit"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty" db:"expiry_date"`
	Location   Location   `json:"location" db:"location"`
	Notes      string     `json:"notes" db:"notes"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}

// Baseline returns the typical quantity, or the current quantity when no
// typical quantity has been recorded.
func (i InventoryItem) Baseline() float64 {
	if i.TypicalQuantity == nil {
		return i.Quantity
	}
	return *i.TypicalQuantity
}

// InventoryDraft is a pre-filled inventory item that has not been saved yet
type InventoryDraft struct {
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Quantity   float64   `json:"quantity"`
	Unit       string    `json:"unit"`
	ExpiryDate time.Time `json:"expiryDate"`
	Location   Location  `json:"location"`
	Notes      string    `json:"notes"`
}
