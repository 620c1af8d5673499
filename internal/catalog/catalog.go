package catalog

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Catalog is an ordered, immutable set of device types with keyed lookup.
// A nil *Catalog behaves as an empty catalog.
type Catalog struct {
	version string
	devices []DeviceType
	index   map[string]int
}

// New validates devices and builds a catalog preserving their order.
// All validation problems are reported together and match ErrInvalidCatalog.
func New(version string, devices ...DeviceType) (*Catalog, error) {
	normalized := make([]DeviceType, 0, len(devices))
	for _, d := range devices {
		d = d.clone()
		if d.Sizing.Kind == "" {
			d.Sizing.Kind = SizingNone
		}
		if d.Sizing.Sized() && d.Sizing.Scale == "" {
			d.Sizing.Scale = ScaleLinear
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		normalized = append(normalized, d)
	}

	if err := validate(version, normalized); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	v, _ := semver.NewVersion(strings.TrimSpace(version))

	index := make(map[string]int, len(normalized))
	for i, d := range normalized {
		index[d.ID] = i
	}

	return &Catalog{
		version: v.String(),
		devices: normalized,
		index:   index,
	}, nil
}

// Version returns the semantic version of the device table.
func (c *Catalog) Version() string {
	if c == nil {
		return ""
	}
	return c.version
}

// Len returns the number of device types.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.devices)
}

// Lookup returns the device type for id. A missing id is an expected outcome,
// e.g. a selection built against an older table.
func (c *Catalog) Lookup(id string) (DeviceType, bool) {
	if c == nil {
		return DeviceType{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return DeviceType{}, false
	}
	return c.devices[i].clone(), true
}

// Require is Lookup that reports a missing id as ErrUnknownDevice.
func (c *Catalog) Require(id string) (DeviceType, error) {
	d, ok := c.Lookup(id)
	if !ok {
		return DeviceType{}, fmt.Errorf("%w: %q", ErrUnknownDevice, id)
	}
	return d, nil
}

// Devices returns a copy of the device types in catalog order.
func (c *Catalog) Devices() []DeviceType {
	if c == nil {
		return []DeviceType{}
	}
	out := make([]DeviceType, len(c.devices))
	for i, d := range c.devices {
		out[i] = d.clone()
	}
	return out
}

// Position returns the catalog order of id, or -1 when absent.
func (c *Catalog) Position(id string) int {
	if c == nil {
		return -1
	}
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}
