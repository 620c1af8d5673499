// Package catalog holds the immutable table of device types and their
// per-unit impact coefficients. A catalog is built once (from the embedded
// reference table or a YAML file), validated, indexed by device id and then
// shared read-only by every caller.
package catalog
