package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

const timestampLayout = "2006-01-02 15:04 MST"

// FormatGroceryText renders r as a plain-text document
func FormatGroceryText(r *GroceryReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Grocery Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.LastUpdated.Format(timestampLayout))
	fmt.Fprintf(&b, "Total items: %s\n", humanize.Comma(int64(r.TotalItems)))
	fmt.Fprintf(&b, "Total cost: %s\n", money(r.TotalCost))

	for _, group := range r.Categories {
		fmt.Fprintf(&b, "\n%s (%d)\n", group.Category, group.ItemCount)
		for _, item := range group.Items {
			fmt.Fprintf(&b, "  - %s: %s %s @ %s = %s", item.Name, quantity(item.Quantity), item.Unit, money(item.Price), money(item.Cost()))
			if item.StoreName != "" {
				fmt.Fprintf(&b, " (%s)", item.StoreName)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nInventory needs\n")
	if len(r.InventoryNeeds) == 0 {
		b.WriteString("  none\n")
	}
	for _, need := range r.InventoryNeeds {
		fmt.Fprintf(&b, "  - %s: %s %s\n", need.Name, quantity(need.Needed), need.Unit)
	}

	return b.String()
}

// FormatInventoryText renders r as a plain-text document
func FormatInventoryText(r *InventoryReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Inventory Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.LastUpdated.Format(timestampLayout))
	fmt.Fprintf(&b, "Total items: %s\n", humanize.Comma(int64(r.TotalItems)))
	fmt.Fprintf(&b, "Low stock: %d\n", r.InventoryStatus.LowStock)
	fmt.Fprintf(&b, "Expiring soon: %d\n", r.InventoryStatus.ExpiringSoon)
	fmt.Fprintf(&b, "Out of stock: %d\n", r.InventoryStatus.OutOfStock)

	for _, group := range r.CategoryBreakdown {
		fmt.Fprintf(&b, "\n%s (%d)\n", group.Category, group.ItemCount)
		for _, item := range group.Items {
			fmt.Fprintf(&b, "  - %s: %s %s [%s]", item.Name, quantity(item.Quantity), item.Unit, item.Location)
			if item.ExpiryDate != nil {
				fmt.Fprintf(&b, " expires %s", humanize.RelTime(*item.ExpiryDate, r.LastUpdated, "ago", "from now"))
			}
			if item.NeedsRestock {
				b.WriteString(" RESTOCK")
			}
			if item.ExpiringSoon {
				b.WriteString(" EXPIRING")
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func quantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
