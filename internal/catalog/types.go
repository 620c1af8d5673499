package catalog

import (
	"fmt"
	"slices"
)

// SizingKind tags whether a device type has a physical size dimension.
type SizingKind string

const (
	// SizingNone marks a device type without a size dimension.
	SizingNone SizingKind = "sizeless"
	// SizingSized marks a device type whose impact scales with a chosen size.
	SizingSized SizingKind = "sized"
)

// ScaleKind selects how a size maps to a multiplier relative to the reference size.
type ScaleKind string

const (
	// ScaleLinear scales by size / reference.
	ScaleLinear ScaleKind = "linear"
	// ScaleArea scales by (size / reference)^2, e.g. screen area from a diagonal.
	ScaleArea ScaleKind = "area"
)

// Coefficients are the per-unit impact figures of a device type.
type Coefficients struct {
	CO2      float64 `yaml:"co2" json:"co2"`           // kg CO2 saved
	Landfill float64 `yaml:"landfill" json:"landfill"` // kg diverted from landfill
	Energy   float64 `yaml:"energy" json:"energy"`     // kWh conserved
}

// Scale returns the coefficients multiplied by factor.
func (c Coefficients) Scale(factor float64) Coefficients {
	return Coefficients{
		CO2:      c.CO2 * factor,
		Landfill: c.Landfill * factor,
		Energy:   c.Energy * factor,
	}
}

// Sizing describes the optional size dimension of a device type. The zero
// value is a sizeless device.
type Sizing struct {
	Kind      SizingKind `yaml:"kind" json:"kind"`
	Unit      string     `yaml:"unit,omitempty" json:"unit,omitempty"`
	Scale     ScaleKind  `yaml:"scale,omitempty" json:"scale,omitempty"`
	Reference float64    `yaml:"reference,omitempty" json:"referenceSize,omitempty"`
	Sizes     []float64  `yaml:"sizes,omitempty" json:"sizes,omitempty"`
}

// Sized reports whether the device type has a size dimension.
func (s Sizing) Sized() bool {
	return s.Kind == SizingSized
}

// Multiplier maps size to the scale factor applied to the base coefficients.
// It is exactly 1 at the reference size and for sizeless devices. Sizes
// outside the offered set are scaled as given; non-positive sizes yield 0.
func (s Sizing) Multiplier(size float64) float64 {
	if !s.Sized() || s.Reference <= 0 {
		return 1
	}
	if size == s.Reference {
		return 1
	}
	if size <= 0 {
		return 0
	}

	ratio := size / s.Reference
	if s.Scale == ScaleArea {
		return ratio * ratio
	}
	return ratio
}

// Allows reports whether size is one of the offered sizes.
func (s Sizing) Allows(size float64) bool {
	return s.Sized() && slices.Contains(s.Sizes, size)
}

func (s Sizing) clone() Sizing {
	out := s
	out.Sizes = slices.Clone(s.Sizes)
	return out
}

// DeviceType is one entry of the catalog.
type DeviceType struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Coefficients `yaml:",inline"`
	Sizing       Sizing `yaml:"sizing,omitempty" json:"sizing"`
}

// PerUnit returns the coefficients for one unit at the given size. When
// hasSize is false or the device is sizeless the base coefficients apply.
func (d DeviceType) PerUnit(size float64, hasSize bool) Coefficients {
	if !hasSize || !d.Sizing.Sized() {
		return d.Coefficients
	}
	return d.Coefficients.Scale(d.Sizing.Multiplier(size))
}

// AllowsSize reports whether the device offers size.
func (d DeviceType) AllowsSize(size float64) bool {
	return d.Sizing.Allows(size)
}

// ValidateSize returns ErrInvalidSize unless size is offered by the device.
func (d DeviceType) ValidateSize(size float64) error {
	if !d.Sizing.Sized() {
		return fmt.Errorf("%w: %s has no size options", ErrInvalidSize, d.ID)
	}
	if !d.AllowsSize(size) {
		return fmt.Errorf("%w: %s does not offer size %g (allowed %v)", ErrInvalidSize, d.ID, size, d.Sizing.Sizes)
	}
	return nil
}

func (d DeviceType) clone() DeviceType {
	out := d
	out.Sizing = d.Sizing.clone()
	return out
}
