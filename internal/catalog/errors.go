package catalog

import "errors"

var (
	// ErrInvalidCatalog is returned when a device table violates validation rules.
	ErrInvalidCatalog = errors.New("invalid device catalog")
	// ErrUnknownDevice is returned when a device id is not present in the catalog.
	ErrUnknownDevice = errors.New("unknown device")
	// ErrInvalidSize is returned when a size is not one the device offers.
	ErrInvalidSize = errors.New("size not offered for device")
)
