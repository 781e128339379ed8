package application

import (
	"context"
	"math/rand"
	"sort"

	"github.com/widgetco/fulfillment/internal/domains/inventory/domain"
	"github.com/widgetco/fulfillment/internal/domains/inventory/ports"
)

// purchaseVariance is the uniform price variance applied to replenishment
// purchases, simulating supplier negotiation.
const purchaseVariance = 0.10

// Availability is the result of a read-only stock check.
type Availability struct {
	Sufficient bool
	Shortfalls []domain.Shortfall
}

// Service exposes the inventory ledger use cases.
type Service struct {
	repo ports.Repository
	rng  *rand.Rand
}

// NewService wires the inventory service. The rand source drives purchase
// price variance; inject a seeded source for reproducible runs.
func NewService(repo ports.Repository, rng *rand.Rand) *Service {
	return &Service{repo: repo, rng: rng}
}

// CheckAvailability reports whether stock covers the given build quantity.
// Read-only; no side effects.
func (s *Service) CheckAvailability(ctx context.Context, product string, quantity int) (Availability, error) {
	if quantity <= 0 {
		return Availability{}, mapError(domain.ErrInvalidQuantity)
	}
	bom, err := s.bomFor(ctx, product)
	if err != nil {
		return Availability{}, err
	}
	needs := domain.Requirements(bom, quantity)
	result := Availability{Sufficient: true}
	for _, part := range sortedParts(needs) {
		needed := needs[part]
		level, err := s.repo.GetLevel(ctx, part)
		if err != nil {
			if err == ports.ErrNotFound {
				result.Sufficient = false
				result.Shortfalls = append(result.Shortfalls, domain.Shortfall{Part: part, Needed: needed})
				continue
			}
			return Availability{}, err
		}
		if level.Quantity < needed {
			result.Sufficient = false
			result.Shortfalls = append(result.Shortfalls, domain.Shortfall{Part: part, Needed: needed, Available: level.Quantity})
		}
	}
	return result, nil
}

// ReserveAndDeduct removes the parts required to build the given quantity
// and returns the total material cost. The caller must have verified
// availability in the same logical operation; the ledger does not re-check.
func (s *Service) ReserveAndDeduct(ctx context.Context, product string, quantity int) (float64, error) {
	if quantity <= 0 {
		return 0, mapError(domain.ErrInvalidQuantity)
	}
	bom, err := s.bomFor(ctx, product)
	if err != nil {
		return 0, err
	}
	needs := domain.Requirements(bom, quantity)
	var totalCost float64
	for _, entry := range bom {
		totalCost += float64(entry.QuantityNeeded*quantity) * entry.UnitCost
	}
	if err := s.repo.DeductBatch(ctx, needs); err != nil {
		return 0, err
	}
	return totalCost, nil
}

// Restock replenishes every part whose stock fell below the threshold.
// Threshold and target are expressed as "enough parts to build N units of
// every product": for each part, sum of quantity-needed across all bill of
// materials entries times the multiple.
func (s *Service) Restock(ctx context.Context, thresholdMultiple, targetMultiple int) ([]domain.RestockAction, error) {
	bom, err := s.repo.ListBOM(ctx)
	if err != nil {
		return nil, err
	}
	perPart := map[string][]domain.BOMEntry{}
	for _, entry := range bom {
		perPart[entry.Part] = append(perPart[entry.Part], entry)
	}

	levels, err := s.repo.ListLevels(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Part < levels[j].Part })

	var actions []domain.RestockAction
	var updated []domain.Level
	for _, level := range levels {
		entries := perPart[level.Part]
		if len(entries) == 0 {
			continue
		}
		var perUnit int
		for _, entry := range entries {
			perUnit += entry.QuantityNeeded
		}
		threshold := perUnit * thresholdMultiple
		if level.Quantity >= threshold {
			continue
		}
		target := perUnit * targetMultiple
		quantity := target - level.Quantity
		if quantity <= 0 {
			continue
		}
		cost := float64(quantity) * s.purchasePrice(entries)
		actions = append(actions, domain.RestockAction{
			Part:            level.Part,
			QuantityOrdered: quantity,
			NewQuantity:     target,
			Cost:            cost,
		})
		updated = append(updated, domain.Level{Part: level.Part, Quantity: target})
	}
	if len(updated) == 0 {
		return nil, nil
	}
	if err := s.repo.SetLevels(ctx, updated); err != nil {
		return nil, err
	}
	return actions, nil
}

// ListLevels returns the current stock of every part.
func (s *Service) ListLevels(ctx context.Context) ([]domain.Level, error) {
	return s.repo.ListLevels(ctx)
}

// ListBOM returns every bill of materials entry.
func (s *Service) ListBOM(ctx context.Context) ([]domain.BOMEntry, error) {
	return s.repo.ListBOM(ctx)
}

// AddBOMEntry registers an immutable bill of materials row (bootstrap only).
func (s *Service) AddBOMEntry(ctx context.Context, entry domain.BOMEntry) (domain.BOMEntry, error) {
	if err := entry.Validate(); err != nil {
		return domain.BOMEntry{}, mapError(err)
	}
	return s.repo.CreateBOMEntry(ctx, entry)
}

// SetLevel establishes the stock level of a part (bootstrap and corrections).
func (s *Service) SetLevel(ctx context.Context, level domain.Level) error {
	return s.repo.UpsertLevel(ctx, level)
}

// UnitCost returns the material cost of building one unit of the product.
func (s *Service) UnitCost(ctx context.Context, product string) (float64, error) {
	bom, err := s.bomFor(ctx, product)
	if err != nil {
		return 0, err
	}
	return domain.UnitCost(bom), nil
}

// purchasePrice draws the replenishment unit price: the BOM-weighted average
// of the part's unit costs, each perturbed by a uniform ±10% variance.
// Weights are the per-unit quantities needed by each product.
func (s *Service) purchasePrice(entries []domain.BOMEntry) float64 {
	var weightedCost float64
	var totalWeight int
	for _, entry := range entries {
		variance := (s.rng.Float64()*2 - 1) * purchaseVariance
		weightedCost += entry.UnitCost * (1 + variance) * float64(entry.QuantityNeeded)
		totalWeight += entry.QuantityNeeded
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedCost / float64(totalWeight)
}

func (s *Service) bomFor(ctx context.Context, product string) ([]domain.BOMEntry, error) {
	bom, err := s.repo.BOMForProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	if len(bom) == 0 {
		return nil, mapError(domain.ErrNoBOM)
	}
	return bom, nil
}

func sortedParts(needs map[string]int) []string {
	parts := make([]string, 0, len(needs))
	for part := range needs {
		parts = append(parts, part)
	}
	sort.Strings(parts)
	return parts
}
