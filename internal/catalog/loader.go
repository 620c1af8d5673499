package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/devices.yaml
var defaultCatalogYAML []byte

var (
	defaultCatalog     *Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// fileFormat is the on-disk YAML layout of a catalog.
type fileFormat struct {
	Version string       `yaml:"version"`
	Devices []DeviceType `yaml:"devices"`
}

// Default returns the embedded reference catalog. The table is parsed once;
// it panics if the embedded data is invalid, which the package tests rule out.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = Parse(defaultCatalogYAML)
	})
	if defaultCatalogErr != nil {
		panic(fmt.Sprintf("embedded device catalog: %v", defaultCatalogErr))
	}
	return defaultCatalog
}

// Load reads and validates a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes a YAML catalog. Unknown fields are rejected so that typos in
// coefficient names do not silently become zero.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw fileFormat
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return New(raw.Version, raw.Devices...)
}

// MarshalYAML renders the catalog in the same layout Parse accepts.
func (c *Catalog) MarshalYAML() (any, error) {
	return fileFormat{
		Version: c.Version(),
		Devices: c.Devices(),
	}, nil
}
