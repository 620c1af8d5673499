package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-multierror"
)

func validate(version string, devices []DeviceType) error {
	var result *multierror.Error

	if _, err := semver.NewVersion(strings.TrimSpace(version)); err != nil {
		result = multierror.Append(result, fmt.Errorf("version %q: %w", version, err))
	}

	if len(devices) == 0 {
		result = multierror.Append(result, fmt.Errorf("catalog has no devices"))
	}

	seen := make(map[string]struct{}, len(devices))
	for i, d := range devices {
		if strings.TrimSpace(d.ID) == "" {
			result = multierror.Append(result, fmt.Errorf("device #%d: id is empty", i))
			continue
		}
		if _, dup := seen[d.ID]; dup {
			result = multierror.Append(result, fmt.Errorf("device %q: duplicate id", d.ID))
		}
		seen[d.ID] = struct{}{}

		if err := validateCoefficients(d.Coefficients); err != nil {
			result = multierror.Append(result, fmt.Errorf("device %q: %w", d.ID, err))
		}
		if err := validateSizing(d.Sizing); err != nil {
			result = multierror.Append(result, fmt.Errorf("device %q: %w", d.ID, err))
		}
	}

	return result.ErrorOrNil()
}

func validateCoefficients(c Coefficients) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"co2", c.CO2},
		{"landfill", c.Landfill},
		{"energy", c.Energy},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be a finite non-negative number, got %v", f.name, f.value)
		}
	}
	return nil
}

func validateSizing(s Sizing) error {
	switch s.Kind {
	case SizingNone:
		if len(s.Sizes) > 0 || s.Reference != 0 {
			return fmt.Errorf("sizeless device must not declare sizes")
		}
		return nil
	case SizingSized:
	default:
		return fmt.Errorf("unknown sizing kind %q", s.Kind)
	}

	if s.Scale != ScaleLinear && s.Scale != ScaleArea {
		return fmt.Errorf("unknown scale %q", s.Scale)
	}
	if len(s.Sizes) == 0 {
		return fmt.Errorf("sized device has no sizes")
	}

	unique := make(map[float64]struct{}, len(s.Sizes))
	for _, size := range s.Sizes {
		if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
			return fmt.Errorf("size %v must be positive", size)
		}
		if _, dup := unique[size]; dup {
			return fmt.Errorf("size %v listed twice", size)
		}
		unique[size] = struct{}{}
	}

	if _, ok := unique[s.Reference]; !ok {
		return fmt.Errorf("reference size %v is not one of %v", s.Reference, s.Sizes)
	}
	return nil
}
