package domain

import "errors"

var (
	ErrUnknownPart       = errors.New("part is not stocked")
	ErrNoBOM             = errors.New("product has no bill of materials")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidBOMEntry   = errors.New("bill of materials entry is invalid")
	ErrDuplicateBOMEntry = errors.New("bill of materials entry already exists for product and part")
)

// BOMEntry maps one part requirement of a product. Entries are immutable
// once created and unique per (product, part).
type BOMEntry struct {
	ID             int64
	Product        string
	Part           string
	QuantityNeeded int
	UnitCost       float64
}

// Validate enforces invariants on a bill of materials entry.
func (e BOMEntry) Validate() error {
	if e.Product == "" || e.Part == "" || e.QuantityNeeded <= 0 || e.UnitCost <= 0 {
		return ErrInvalidBOMEntry
	}
	return nil
}

// Level is the stocked quantity of a single part. The quantity may only go
// negative transiently, between an availability check and the corresponding
// deduction being re-run after a crash.
type Level struct {
	Part     string
	Quantity int
}

// Shortfall describes one part blocking an order.
type Shortfall struct {
	Part      string
	Needed    int
	Available int
}

// RestockAction describes one replenishment purchase.
type RestockAction struct {
	Part            string
	QuantityOrdered int
	NewQuantity     int
	Cost            float64
}

// Requirements computes the per-part quantities needed to build the given
// number of units from a product's bill of materials.
func Requirements(bom []BOMEntry, units int) map[string]int {
	needs := make(map[string]int, len(bom))
	for _, entry := range bom {
		needs[entry.Part] += entry.QuantityNeeded * units
	}
	return needs
}

// UnitCost computes the manufacturing cost of a single unit from its bill
// of materials.
func UnitCost(bom []BOMEntry) float64 {
	var cost float64
	for _, entry := range bom {
		cost += float64(entry.QuantityNeeded) * entry.UnitCost
	}
	return cost
}
