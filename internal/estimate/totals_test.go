package estimate

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricing(rate, buffer float64) domain.PricingConfig {
	return domain.PricingConfig{Rate: rate, BufferPercent: buffer}
}

func TestComputeTotals_SingleItemExample(t *testing.T) {
	items := domain.Dataset{
		{ID: "A1", Priority: domain.PriorityP0, FE: 8, BE: 6, Intg: 0, QA: 4},
	}
	got := ComputeTotals(items, pricing(45, 20))

	assert.Equal(t, domain.Hours(18), got.For(domain.PriorityP0))
	assert.Equal(t, domain.Hours(0), got.For(domain.PriorityP1))
	assert.Equal(t, domain.Hours(0), got.For(domain.PriorityP2))
	assert.Equal(t, domain.Hours(18), got.GrandTotal)
	assert.Equal(t, domain.Hours(22), got.BufferedTotal)
	assert.Equal(t, 810.0, got.Cost)
	assert.Equal(t, 990.0, got.BufferedCost)
}

func TestComputeTotals_GroupsByPriority(t *testing.T) {
	items := domain.Dataset{
		{ID: "A1", Priority: domain.PriorityP0, FE: 8, BE: 2},
		{ID: "B1", Priority: domain.PriorityP1, QA: 5},
		{ID: "A2", Priority: domain.PriorityP0, Intg: 1.5},
		{ID: "C1", Priority: domain.PriorityP2, BE: 4, QA: 1},
	}
	got := ComputeTotals(items, pricing(35, 0))

	assert.Equal(t, domain.Hours(11.5), got.For(domain.PriorityP0))
	assert.Equal(t, domain.Hours(5), got.For(domain.PriorityP1))
	assert.Equal(t, domain.Hours(5), got.For(domain.PriorityP2))
	assert.Equal(t, domain.Hours(21.5), got.GrandTotal)
	assert.Equal(t, domain.Hours(22), got.BufferedTotal, "zero buffer still rounds once")
	assert.Equal(t, 752.5, got.Cost)
	assert.Equal(t, 770.0, got.BufferedCost)
}

func TestComputeTotals_EmptyDataset(t *testing.T) {
	got := ComputeTotals(nil, domain.DefaultPricing())
	assert.Len(t, got.ByPriority, 3)
	assert.Equal(t, domain.Hours(0), got.GrandTotal)
	assert.Equal(t, domain.Hours(0), got.BufferedTotal)
	assert.Equal(t, 0.0, got.Cost)
}

func TestComputeTotals_UnknownPriorityContributesNothing(t *testing.T) {
	items := domain.Dataset{
		{ID: "A1", Priority: domain.PriorityP0, FE: 4},
		{ID: "X1", Priority: "P9", FE: 100},
	}
	got := ComputeTotals(items, pricing(45, 0))
	assert.Len(t, got.ByPriority, 3)
	assert.Equal(t, domain.Hours(4), got.GrandTotal)
}

func TestComputeTotals_RoundsHalfUp(t *testing.T) {
	items := domain.Dataset{{ID: "A1", Priority: domain.PriorityP1, FE: 5}}
	// 5 * 1.1 = 5.5 -> 6
	got := ComputeTotals(items, pricing(1, 10))
	assert.Equal(t, domain.Hours(6), got.BufferedTotal)
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := domain.Dataset{
		{ID: "A1", Priority: domain.PriorityP0, FE: 8.25, BE: 6},
		{ID: "B1", Priority: domain.PriorityP2, QA: 3.75},
	}
	p := pricing(47.5, 17)
	assert.Equal(t, ComputeTotals(items, p), ComputeTotals(items, p))
}

func TestComputeTotals_DoesNotMutateInput(t *testing.T) {
	items := domain.Dataset{{ID: "A1", Priority: domain.PriorityP0, FE: 8}}
	before := items.Clone()
	ComputeTotals(items, domain.DefaultPricing())
	assert.Equal(t, before, items)
}

// TestComputeTotals_BufferMonotonic property-tests that the buffered total
// never decreases as the buffer grows.
func TestComputeTotals_BufferMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	prios := domain.Priorities()

	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(12) + 1
		items := make(domain.Dataset, n)
		for i := range items {
			items[i] = domain.LineItem{
				ID:       string(rune('A'+i)) + "1",
				Priority: prios[rng.Intn(len(prios))],
				FE:       domain.Hours(rng.Intn(40)),
				BE:       domain.Hours(rng.Intn(40)) / 2,
				Intg:     domain.Hours(rng.Intn(20)),
				QA:       domain.Hours(rng.Intn(16)) / 4,
			}
		}
		rate := float64(rng.Intn(100) + 1)

		prev := ComputeTotals(items, pricing(rate, 0))
		for buf := 1; buf <= 60; buf++ {
			cur := ComputeTotals(items, pricing(rate, float64(buf)))
			require.GreaterOrEqual(t, cur.BufferedTotal, prev.BufferedTotal,
				"trial %d: buffered total dropped at buffer %d%%", trial, buf)
			require.GreaterOrEqual(t, cur.BufferedCost, prev.BufferedCost,
				"trial %d: buffered cost dropped at buffer %d%%", trial, buf)
			prev = cur
		}
	}
}

func TestPriceItem_RoundsPerRow(t *testing.T) {
	item := domain.LineItem{ID: "A1", Priority: domain.PriorityP0, FE: 7.5, QA: 0.25}
	got := PriceItem(item, pricing(45, 10))
	assert.Equal(t, domain.Hours(7.75), got.Hours)
	assert.Equal(t, 349.0, got.Cost)         // 348.75
	assert.Equal(t, 384.0, got.BufferedCost) // 383.625
}

func TestItemCost_Unrounded(t *testing.T) {
	item := domain.LineItem{ID: "A1", Priority: domain.PriorityP0, FE: 1.5}
	assert.Equal(t, 67.5, ItemCost(item, pricing(45, 0)))
}

func TestRateScenarios(t *testing.T) {
	items := domain.Dataset{{ID: "A1", Priority: domain.PriorityP0, FE: 8, BE: 6, QA: 4}}
	totals := ComputeTotals(items, pricing(45, 20))

	got := RateScenarios(totals, domain.RatePresets, 45)
	require.Len(t, got, 3)

	assert.Equal(t, Scenario{Rate: 35, Cost: 630, BufferedCost: 770}, got[0])
	assert.Equal(t, Scenario{Rate: 45, Cost: 810, BufferedCost: 990, Selected: true}, got[1])
	assert.Equal(t, Scenario{Rate: 60, Cost: 1080, BufferedCost: 1320}, got[2])
}
