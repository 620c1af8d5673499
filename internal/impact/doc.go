// Package impact computes the environmental impact of recycling a selection
// of devices: a weighted sum of the catalog coefficients over the selected
// quantities, scaled by the chosen size where a device has one.
package impact
