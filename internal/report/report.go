// Package report computes the grocery and inventory reports served by the API.
//
// Everything here is a pure function of its inputs: items are fetched by the
// caller, filtered to one owner, and never modified.
package report

import (
	"time"

	"pantry-keeper/internal/domain"

	"github.com/google/uuid"
)

// GroceryReport summarises a user's grocery list
type GroceryReport struct {
	TotalItems     int             `json:"totalItems"`
	TotalCost      float64         `json:"totalCost"`
	Categories     []GroceryGroup  `json:"categories"`
	InventoryNeeds []InventoryNeed `json:"inventoryNeeds"`
	LastUpdated    time.Time       `json:"lastUpdated"`
}

// GroceryGroup is the set of grocery items sharing a category
type GroceryGroup struct {
	Category  string               `json:"category"`
	ItemCount int                  `json:"itemCount"`
	Items     []domain.GroceryItem `json:"items"`
}

// InventoryNeed is the shortfall between a grocery quantity and what is on hand
type InventoryNeed struct {
	Name   string  `json:"name"`
	Needed float64 `json:"needed"`
	Unit   string  `json:"unit"`
}

// InventoryReport summarises a user's inventory
type InventoryReport struct {
	TotalItems        int              `json:"totalItems"`
	CategoryBreakdown []InventoryGroup `json:"categoryBreakdown"`
	InventoryStatus   InventoryStatus  `json:"inventoryStatus"`
	LastUpdated       time.Time        `json:"lastUpdated"`
}

// InventoryGroup is the set of inventory items sharing a category
type InventoryGroup struct {
	Category  string          `json:"category"`
	ItemCount int             `json:"itemCount"`
	Items     []AnnotatedItem `json:"items"`
}

// AnnotatedItem is an inventory item with its stock and expiry flags
type AnnotatedItem struct {
	domain.InventoryItem
	NeedsRestock bool `json:"needsRestock"`
	ExpiringSoon bool `json:"expiringSoon"`
}

// InventoryStatus holds independent per-predicate tallies. One item may be
// counted in all three.
type InventoryStatus struct {
	LowStock     int `json:"lowStock"`
	ExpiringSoon int `json:"expiringSoon"`
	OutOfStock   int `json:"outOfStock"`
}

// Aggregator builds reports. The zero value is not usable; use NewAggregator.
type Aggregator struct {
	matcher Matcher
	now     func() time.Time
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithMatcher replaces the grocery-to-inventory matcher
func WithMatcher(m Matcher) Option {
	return func(a *Aggregator) {
		a.matcher = m
	}
}

// WithClock sets the time source used for expiry checks and lastUpdated
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// NewAggregator creates an Aggregator using name matching and the wall clock
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		matcher: NameMatcher{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAggregator = NewAggregator()

// ComputeGroceryReport builds a grocery report over owner's items
func ComputeGroceryReport(owner uuid.UUID, groceries []domain.GroceryItem, inventory []domain.InventoryItem) *GroceryReport {
	return defaultAggregator.GroceryReport(owner, groceries, inventory)
}

// ComputeInventoryReport builds an inventory report over owner's items
func ComputeInventoryReport(owner uuid.UUID, inventory []domain.InventoryItem) *InventoryReport {
	return defaultAggregator.InventoryReport(owner, inventory)
}

// GroceryReport builds a grocery report. Items in either list that do not
// belong to owner are ignored.
func (a *Aggregator) GroceryReport(owner uuid.UUID, groceries []domain.GroceryItem, inventory []domain.InventoryItem) *GroceryReport {
	groceries = ownedBy(owner, groceries, func(g domain.GroceryItem) uuid.UUID { return g.OwnerID })
	inventory = ownedBy(owner, inventory, func(i domain.InventoryItem) uuid.UUID { return i.OwnerID })

	r := &GroceryReport{
		TotalItems:     len(groceries),
		Categories:     []GroceryGroup{},
		InventoryNeeds: []InventoryNeed{},
		LastUpdated:    a.now(),
	}

	for _, item := range groceries {
		r.TotalCost += item.Cost()

		if need, ok := a.need(item, inventory); ok {
			r.InventoryNeeds = append(r.InventoryNeeds, need)
		}
	}

	for _, g := range groupByCategory(groceries, func(g domain.GroceryItem) string { return g.Category }) {
		r.Categories = append(r.Categories, GroceryGroup{
			Category:  g.category,
			ItemCount: len(g.items),
			Items:     g.items,
		})
	}

	return r
}

// need returns the shortfall for one grocery item. Items without a name or a
// positive quantity cannot be matched and are skipped.
func (a *Aggregator) need(item domain.GroceryItem, inventory []domain.InventoryItem) (InventoryNeed, bool) {
	if isBlank(item.Name) || item.Quantity <= 0 {
		return InventoryNeed{}, false
	}

	matched, ok := a.matcher.Match(item, inventory)
	if !ok {
		return InventoryNeed{Name: item.Name, Needed: item.Quantity, Unit: item.Unit}, true
	}
	if matched.Quantity < item.Quantity {
		return InventoryNeed{Name: item.Name, Needed: item.Quantity - matched.Quantity, Unit: item.Unit}, true
	}
	return InventoryNeed{}, false
}

// InventoryReport builds an inventory report. Items that do not belong to
// owner are ignored.
func (a *Aggregator) InventoryReport(owner uuid.UUID, inventory []domain.InventoryItem) *InventoryReport {
	inventory = ownedBy(owner, inventory, func(i domain.InventoryItem) uuid.UUID { return i.OwnerID })
	now := a.now()

	r := &InventoryReport{
		TotalItems:        len(inventory),
		CategoryBreakdown: []InventoryGroup{},
		LastUpdated:       now,
	}

	for _, item := range inventory {
		if NeedsRestock(item) {
			r.InventoryStatus.LowStock++
		}
		if ExpiringSoon(item, now) {
			r.InventoryStatus.ExpiringSoon++
		}
		if OutOfStock(item) {
			r.InventoryStatus.OutOfStock++
		}
	}

	for _, g := range groupByCategory(inventory, func(i domain.InventoryItem) string { return i.Category }) {
		items := make([]AnnotatedItem, 0, len(g.items))
		for _, item := range g.items {
			items = append(items, AnnotatedItem{
				InventoryItem: item,
				NeedsRestock:  NeedsRestock(item),
				ExpiringSoon:  ExpiringSoon(item, now),
			})
		}
		r.CategoryBreakdown = append(r.CategoryBreakdown, InventoryGroup{
			Category:  g.category,
			ItemCount: len(items),
			Items:     items,
		})
	}

	return r
}
