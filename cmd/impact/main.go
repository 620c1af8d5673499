package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/eugenenazirov/ewaste-impact/internal/application"
	"github.com/eugenenazirov/ewaste-impact/internal/catalog"
	"github.com/eugenenazirov/ewaste-impact/internal/config"
	"github.com/eugenenazirov/ewaste-impact/internal/equivalence"
	"github.com/eugenenazirov/ewaste-impact/internal/impact"
	"github.com/eugenenazirov/ewaste-impact/internal/logging"
	"github.com/eugenenazirov/ewaste-impact/internal/tui"
)

var errNotTerminal = errors.New("the interactive form needs a terminal; use `impact calc` instead")

// Swapped in tests.
var (
	isTerminal = func() bool {
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
	runProgram = func(m tea.Model) (tea.Model, error) {
		return tea.NewProgram(m, tea.WithAltScreen()).Run()
	}
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "impact: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	app := kingpin.New("impact", "E-Waste Impact Calculator - estimates the environmental benefit of recycling devices")
	configFile := app.Flag("config", "Path to YAML configuration file").String()
	catalogFile := app.Flag("catalog", "Path to a YAML device catalog (defaults to the embedded one)").String()
	goalFlag := app.Flag("co2-goal", "CO2 savings goal in kg used for progress").Default("-1").Float64()
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error)").String()

	calcCmd := app.Command("calc", "Calculate the impact of recycling the given devices")
	items := calcCmd.Flag("item", "Device as id=quantity[@size], repeatable (e.g. monitor=1@27)").Short('i').Strings()
	jsonOut := calcCmd.Flag("json", "Print the report as JSON").Bool()

	devicesCmd := app.Command("devices", "List the devices in the catalog")
	tuiCmd := app.Command("tui", "Open the interactive device form")

	command, err := app.Parse(args)
	if err != nil {
		return err
	}

	overrides := &config.CLIOverrides{ConfigFile: *configFile}
	if *catalogFile != "" {
		overrides.CatalogFile = catalogFile
	}
	if *goalFlag >= 0 {
		overrides.CO2GoalKg = goalFlag
	}
	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cat, err := application.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("load device catalog: %w", err)
	}
	logger.Debug("device catalog loaded",
		zap.String("version", cat.Version()),
		zap.Int("devices", cat.Len()),
	)

	switch command {
	case calcCmd.FullCommand():
		return runCalc(stdout, cat, cfg.CO2GoalKg, *items, *jsonOut)
	case devicesCmd.FullCommand():
		return runDevices(stdout, cat)
	case tuiCmd.FullCommand():
		return runTUI(stdout, cat, cfg.CO2GoalKg)
	}
	return nil
}

type calcOutput struct {
	CatalogVersion string              `json:"catalogVersion"`
	Report         impact.Report       `json:"report"`
	Summary        equivalence.Summary `json:"summary"`
}

func runCalc(w io.Writer, cat *catalog.Catalog, goalKg float64, items []string, asJSON bool) error {
	sel, err := buildSelection(cat, items)
	if err != nil {
		return err
	}

	report := impact.New().Calculate(cat, sel)
	summary := equivalence.Summarize(report.Totals, goalKg)

	if asJSON {
		data, err := json.MarshalIndent(calcOutput{
			CatalogVersion: cat.Version(),
			Report:         report,
			Summary:        summary,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	_, err = io.WriteString(w, formatReport(report, summary))
	return err
}

func formatReport(report impact.Report, s equivalence.Summary) string {
	var b strings.Builder
	for _, line := range report.Breakdown {
		label := line.Name
		if line.Size > 0 {
			label += " " + strconv.FormatFloat(line.Size, 'f', -1, 64) + " " + line.Unit
		}
		fmt.Fprintf(&b, "%-24s x%-4d %10s kg CO2\n", label, line.Quantity, equivalence.FormatFloat(line.Totals.CO2, 1))
	}
	for _, id := range report.Ignored {
		fmt.Fprintf(&b, "ignored unknown device %q\n", id)
	}
	if len(report.Breakdown) > 0 || len(report.Ignored) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "CO2 saved:         %s kg\n", s.Display.CO2)
	fmt.Fprintf(&b, "Landfill avoided:  %s kg\n", s.Display.Landfill)
	fmt.Fprintf(&b, "Energy saved:      %s kWh\n", s.Display.Energy)
	fmt.Fprintf(&b, "Trees planted:     %s\n", s.Display.Trees)
	fmt.Fprintf(&b, "Cars off the road: %s\n", s.Display.Cars)
	fmt.Fprintf(&b, "Goal progress:     %s%% of %s kg\n", s.Display.GoalProgress, equivalence.FormatFloat(s.GoalKg, 0))
	if !s.Totals.IsZero() {
		b.WriteString("\n" + s.Display.Comparison + "\n")
	}
	return b.String()
}

func runDevices(w io.Writer, cat *catalog.Catalog) error {
	for _, d := range cat.Devices() {
		sizes := "-"
		if d.Sizing.Sized() {
			parts := make([]string, 0, len(d.Sizing.Sizes))
			for _, size := range d.Sizing.Sizes {
				parts = append(parts, strconv.FormatFloat(size, 'f', -1, 64))
			}
			sizes = strings.Join(parts, ",") + " " + d.Sizing.Unit
		}
		if _, err := fmt.Fprintf(w, "%-12s %-14s %8s kg CO2 %7s kg %6s kWh  sizes: %s\n",
			d.ID, d.Name,
			equivalence.FormatFloat(d.CO2, 1),
			equivalence.FormatFloat(d.Landfill, 2),
			equivalence.FormatFloat(d.Energy, 0),
			sizes,
		); err != nil {
			return err
		}
	}
	return nil
}

func runTUI(w io.Writer, cat *catalog.Catalog, goalKg float64) error {
	if !isTerminal() {
		return errNotTerminal
	}

	final, err := runProgram(tui.New(cat, impact.New(), goalKg))
	if err != nil {
		return fmt.Errorf("running interactive form: %w", err)
	}

	model, ok := final.(*tui.Model)
	if !ok {
		return nil
	}
	if summary := model.Summary(); !summary.Totals.IsZero() {
		_, err = fmt.Fprintln(w, summary.Display.Comparison)
	}
	return err
}
