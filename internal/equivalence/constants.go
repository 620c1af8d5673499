package equivalence

// Real-world comparison factors. An equivalence is the CO2 total divided by
// the factor.
const (
	// KgCO2PerTreeYear is the CO2 an average tree absorbs in one year.
	KgCO2PerTreeYear = 21.0

	// KgCO2PerCarYear is the CO2 an average passenger car emits in one year
	// (about 4.6 metric tons).
	KgCO2PerCarYear = 4600.0

	// DefaultGoalKg is the CO2 savings target the progress figure tracks.
	DefaultGoalKg = 500.0
)

// Display precision, in decimal places, for each figure.
const (
	co2Precision      = 1
	landfillPrecision = 2
	energyPrecision   = 0
	treesPrecision    = 1
	carsPrecision     = 2
	progressPrecision = 0
)
