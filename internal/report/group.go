package report

import (
	"strings"

	"pantry-keeper/internal/domain"

	"github.com/google/uuid"
)

type group[T any] struct {
	category string
	items    []T
}

// groupByCategory partitions items by normalized category. Groups appear in
// the order their category is first seen and keep their items in input order.
func groupByCategory[T any](items []T, category func(T) string) []group[T] {
	var groups []group[T]
	index := make(map[string]int)

	for _, item := range items {
		name := domain.NormalizeCategory(category(item))
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, group[T]{category: name})
		}
		groups[i].items = append(groups[i].items, item)
	}

	return groups
}

// ownedBy returns a new slice holding the items that belong to owner
func ownedBy[T any](owner uuid.UUID, items []T, ownerOf func(T) uuid.UUID) []T {
	owned := make([]T, 0, len(items))
	for _, item := range items {
		if ownerOf(item) == owner {
			owned = append(owned, item)
		}
	}
	return owned
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
