package report

import "sort"

// DefaultTopMenuSize is the number of entries on the dashboard's top-menu
// widget.
const DefaultTopMenuSize = 5

// TopMenuItems ranks menu items by revenue re-derived from menu_items
// (price × qty per line, keyed by exact item name). Items with equal totals
// keep their first-encountered order across the input; sales with no parsed
// menu lines are skipped here without affecting any other metric. Zero and
// negative totals stay eligible unless the k cut drops them.
func TopMenuItems(sales []Sale, k int) []ItemTotal {
	if k <= 0 {
		k = DefaultTopMenuSize
	}

	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, sale := range sales {
		for _, line := range sale.MenuItems {
			if line.Item == "" {
				continue
			}
			if _, ok := totals[line.Item]; !ok {
				order = append(order, line.Item)
			}
			totals[line.Item] += line.Price * float64(line.Qty)
		}
	}

	ranked := make([]ItemTotal, 0, len(order))
	for _, item := range order {
		ranked = append(ranked, ItemTotal{Item: item, Total: totals[item]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
