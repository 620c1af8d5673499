// Package equivalence turns impact totals into relatable comparison figures
// (trees planted, cars taken off the road, progress towards a CO2 goal) and
// renders them for display.
package equivalence

import (
	"fmt"

	"github.com/eugenenazirov/ewaste-impact/internal/impact"
)

// TreesEquivalent returns how many trees absorb co2Kg in one year.
func TreesEquivalent(co2Kg float64) float64 {
	return co2Kg / KgCO2PerTreeYear
}

// CarsOffRoad returns how many cars emit co2Kg in one year.
func CarsOffRoad(co2Kg float64) float64 {
	return co2Kg / KgCO2PerCarYear
}

// GoalProgress returns co2Kg as a percentage of goalKg, capped at 100.
// A non-positive goal yields 0.
func GoalProgress(co2Kg, goalKg float64) float64 {
	if goalKg <= 0 || co2Kg <= 0 {
		return 0
	}
	return min(co2Kg/goalKg*100, 100)
}

// Display holds the display-ready strings of a Summary.
type Display struct {
	CO2          string `json:"co2"`
	Landfill     string `json:"landfill"`
	Energy       string `json:"energy"`
	Trees        string `json:"trees"`
	Cars         string `json:"cars"`
	GoalProgress string `json:"goalProgress"`
	Comparison   string `json:"comparison"`
}

// Summary bundles totals with their derived comparison figures.
type Summary struct {
	Totals       impact.Totals `json:"totals"`
	Trees        float64       `json:"trees"`
	Cars         float64       `json:"cars"`
	GoalKg       float64       `json:"goalKg"`
	GoalProgress float64       `json:"goalProgress"`
	Display      Display       `json:"display"`
}

// Summarize derives the comparison figures for totals. Rounding happens only
// in Display; the numeric fields keep full precision.
func Summarize(totals impact.Totals, goalKg float64) Summary {
	trees := TreesEquivalent(totals.CO2)
	cars := CarsOffRoad(totals.CO2)
	progress := GoalProgress(totals.CO2, goalKg)

	display := Display{
		CO2:          FormatFloat(totals.CO2, co2Precision),
		Landfill:     FormatFloat(totals.Landfill, landfillPrecision),
		Energy:       FormatFloat(totals.Energy, energyPrecision),
		Trees:        FormatFloat(trees, treesPrecision),
		Cars:         FormatFloat(cars, carsPrecision),
		GoalProgress: FormatFloat(progress, progressPrecision),
	}
	display.Comparison = fmt.Sprintf(
		"Your recycling effort equals taking %s cars off the road for a year, or planting %s trees!",
		display.Cars, display.Trees,
	)

	return Summary{
		Totals:       totals,
		Trees:        trees,
		Cars:         cars,
		GoalKg:       goalKg,
		GoalProgress: progress,
		Display:      display,
	}
}
