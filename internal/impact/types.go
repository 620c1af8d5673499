package impact

import "github.com/eugenenazirov/ewaste-impact/internal/catalog"

// Totals are the aggregate impact of a selection. They are derived on every
// call and never rounded.
type Totals struct {
	CO2      float64 `json:"co2"`      // kg CO2 saved
	Landfill float64 `json:"landfill"` // kg diverted from landfill
	Energy   float64 `json:"energy"`   // kWh conserved
}

func (t Totals) add(c catalog.Coefficients) Totals {
	return Totals{
		CO2:      t.CO2 + c.CO2,
		Landfill: t.Landfill + c.Landfill,
		Energy:   t.Energy + c.Energy,
	}
}

// IsZero reports whether all three totals are zero.
func (t Totals) IsZero() bool {
	return t == Totals{}
}

// Contribution is the share of one selection entry in the totals.
type Contribution struct {
	DeviceID   string  `json:"id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Size       float64 `json:"size,omitempty"`
	Unit       string  `json:"unit,omitempty"`
	Multiplier float64 `json:"multiplier"`
	Totals     Totals  `json:"totals"`
}

// Report is a full calculation: totals, per-device breakdown in catalog
// order, and the ids that were skipped because the catalog does not know them.
type Report struct {
	Totals    Totals         `json:"totals"`
	Breakdown []Contribution `json:"breakdown"`
	Ignored   []string       `json:"ignored"`
}

// Calculator describes the behaviour required from an impact calculator.
type Calculator interface {
	Calculate(cat *catalog.Catalog, sel *Selection) Report
}
