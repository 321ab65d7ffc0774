package report

import (
	"strings"

	"pantry-keeper/internal/domain"
)

// Matcher finds the inventory item that corresponds to a grocery item
type Matcher interface {
	Match(item domain.GroceryItem, inventory []domain.InventoryItem) (domain.InventoryItem, bool)
}

// NameMatcher matches on trimmed, case-insensitive item names. When several
// inventory items share a name the first one in input order wins.
type NameMatcher struct{}

// Match implements Matcher
func (NameMatcher) Match(item domain.GroceryItem, inventory []domain.InventoryItem) (domain.InventoryItem, bool) {
	name := strings.TrimSpace(item.Name)
	for _, candidate := range inventory {
		if strings.EqualFold(strings.TrimSpace(candidate.Name), name) {
			return candidate, true
		}
	}
	return domain.InventoryItem{}, false
}
