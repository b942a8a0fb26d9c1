package estimate

// Scenario shows what the current totals would cost at another rate.
type Scenario struct {
	Rate         float64
	Cost         float64
	BufferedCost float64
	Selected     bool
}

// RateScenarios prices the totals at each of the given rates.
func RateScenarios(t Totals, rates []float64, current float64) []Scenario {
	out := make([]Scenario, 0, len(rates))
	for _, r := range rates {
		out = append(out, Scenario{
			Rate:         r,
			Cost:         t.GrandTotal.Float() * r,
			BufferedCost: Round(t.BufferedTotal.Float() * r),
			Selected:     r == current,
		})
	}
	return out
}
