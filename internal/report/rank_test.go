package report

import "testing"

func TestTopMenuItemsAccumulation(t *testing.T) {
	sales := []Sale{
		{MenuItems: []MenuLine{
			{Item: "A", Price: 10, Qty: 2},
			{Item: "B", Price: 5, Qty: 1},
		}},
		{MenuItems: []MenuLine{
			{Item: "A", Price: 10, Qty: 1},
		}},
	}

	got := TopMenuItems(sales, 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Item != "A" || got[0].Total != 30 {
		t.Fatalf("expected A=30 first, got %s=%v", got[0].Item, got[0].Total)
	}
	if got[1].Item != "B" || got[1].Total != 5 {
		t.Fatalf("expected B=5 second, got %s=%v", got[1].Item, got[1].Total)
	}
}

func TestTopMenuItemsTieBreakKeepsEncounterOrder(t *testing.T) {
	sales := []Sale{
		{MenuItems: []MenuLine{
			{Item: "zeta", Price: 10, Qty: 1},
			{Item: "alpha", Price: 10, Qty: 1},
			{Item: "mid", Price: 20, Qty: 1},
		}},
	}

	got := TopMenuItems(sales, 5)
	if got[0].Item != "mid" {
		t.Fatalf("expected mid first, got %s", got[0].Item)
	}
	// Equal totals stay in input order, not alphabetical.
	if got[1].Item != "zeta" || got[2].Item != "alpha" {
		t.Fatalf("tie-break broke encounter order: %s, %s", got[1].Item, got[2].Item)
	}
}

func TestTopMenuItemsTruncationAndDefaults(t *testing.T) {
	sales := []Sale{{MenuItems: []MenuLine{
		{Item: "a", Price: 7, Qty: 1},
		{Item: "b", Price: 6, Qty: 1},
		{Item: "c", Price: 5, Qty: 1},
		{Item: "d", Price: 4, Qty: 1},
		{Item: "e", Price: 3, Qty: 1},
		{Item: "f", Price: 2, Qty: 1},
	}}}

	if got := TopMenuItems(sales, 2); len(got) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(got))
	}
	if got := TopMenuItems(sales, 0); len(got) != DefaultTopMenuSize {
		t.Fatalf("expected default size %d, got %d", DefaultTopMenuSize, len(got))
	}
}

func TestTopMenuItemsMissingFieldsContributeZero(t *testing.T) {
	sales := []Sale{
		{MenuItems: []MenuLine{
			{Item: "priced", Price: 12, Qty: 3},
			{Item: "no-qty", Price: 12},
			{Item: "no-price", Qty: 4},
		}},
	}

	got := TopMenuItems(sales, 5)
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	if got[0].Item != "priced" || got[0].Total != 36 {
		t.Fatalf("expected priced=36, got %s=%v", got[0].Item, got[0].Total)
	}
	// Zero-revenue items stay eligible.
	if got[1].Total != 0 || got[2].Total != 0 {
		t.Fatalf("expected zero totals, got %v and %v", got[1].Total, got[2].Total)
	}
}

func TestTopMenuItemsSkipsMalformedSales(t *testing.T) {
	sales := []Sale{
		{MenuItems: nil, Total: 50000},
		{MenuItems: []MenuLine{{Item: "양갈비", Price: 25000, Qty: 2}}},
	}

	got := TopMenuItems(sales, 5)
	if len(got) != 1 || got[0].Item != "양갈비" || got[0].Total != 50000 {
		t.Fatalf("unexpected ranking: %+v", got)
	}
}
