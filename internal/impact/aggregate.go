package impact

import (
	"sort"

	"github.com/eugenenazirov/ewaste-impact/internal/catalog"
)

// Aggregate sums base * quantity * multiplier over the selection. Entries
// whose id the catalog does not know are skipped. Ids are visited in sorted
// order so the floating-point result does not depend on map iteration.
func Aggregate(cat *catalog.Catalog, sel *Selection) Totals {
	var totals Totals
	for _, id := range sel.IDs() {
		device, ok := cat.Lookup(id)
		if !ok {
			continue
		}
		entry, _ := sel.Get(id)
		totals = totals.add(contribution(device, entry))
	}
	return totals
}

// Breakdown returns one contribution per known entry in catalog order, and
// the sorted ids that were skipped.
func Breakdown(cat *catalog.Catalog, sel *Selection) ([]Contribution, []string) {
	lines := make([]Contribution, 0, sel.Len())
	ignored := []string{}

	for _, id := range sel.IDs() {
		entry, _ := sel.Get(id)
		device, ok := cat.Lookup(id)
		if !ok {
			ignored = append(ignored, id)
			continue
		}

		line := Contribution{
			DeviceID:   device.ID,
			Name:       device.Name,
			Quantity:   entry.Quantity,
			Multiplier: multiplier(device, entry),
			Totals:     Totals{}.add(contribution(device, entry)),
		}
		if device.Sizing.Sized() && entry.HasSize {
			line.Size = entry.Size
			line.Unit = device.Sizing.Unit
		}
		lines = append(lines, line)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return cat.Position(lines[i].DeviceID) < cat.Position(lines[j].DeviceID)
	})

	return lines, ignored
}

func multiplier(device catalog.DeviceType, entry Entry) float64 {
	if !device.Sizing.Sized() || !entry.HasSize {
		return 1
	}
	return device.Sizing.Multiplier(entry.Size)
}

func contribution(device catalog.DeviceType, entry Entry) catalog.Coefficients {
	return device.PerUnit(entry.Size, entry.HasSize).Scale(float64(entry.Quantity))
}

type linearCalculator struct{}

// New creates a Calculator that aggregates with Aggregate and Breakdown.
func New() Calculator {
	return &linearCalculator{}
}

func (c *linearCalculator) Calculate(cat *catalog.Catalog, sel *Selection) Report {
	lines, ignored := Breakdown(cat, sel)
	return Report{
		Totals:    Aggregate(cat, sel),
		Breakdown: lines,
		Ignored:   ignored,
	}
}
