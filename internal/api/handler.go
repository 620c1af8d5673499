package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/eugenenazirov/ewaste-impact/internal/catalog"
	"github.com/eugenenazirov/ewaste-impact/internal/equivalence"
	"github.com/eugenenazirov/ewaste-impact/internal/impact"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const maxRequestBodyBytes = 64 << 10

var (
	errEmptyDeviceID     = errors.New("item id must not be empty")
	errUnexpectedPayload = errors.New("unable to parse JSON payload")
	errNoCatalog         = errors.New("device catalog is not loaded")
)

// Handler wires the catalog and impact calculator into HTTP handlers. It
// holds no selection state: every request carries its whole selection.
type Handler struct {
	calculator impact.Calculator
	catalog    *catalog.Catalog
	goalKg     float64

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithGoal sets the CO2 goal, in kg, that progress is reported against.
func WithGoal(goalKg float64) HandlerOption {
	return func(h *Handler) {
		if goalKg > 0 {
			h.goalKg = goalKg
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(calc impact.Calculator, cat *catalog.Catalog, opts ...HandlerOption) *Handler {
	h := &Handler{
		calculator: calc,
		catalog:    cat,
		goalKg:     equivalence.DefaultGoalKg,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:         "ok",
		Timestamp:      h.clock(),
		CatalogVersion: h.catalog.Version(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListDevices(w http.ResponseWriter, r *http.Request) {
	_ = r
	if h.catalog.Len() == 0 {
		writeInternalError(w, errNoCatalog)
		return
	}
	devices := h.catalog.Devices()

	resp := devicesResponse{
		Version: h.catalog.Version(),
		GoalKg:  h.goalKg,
		Devices: make([]deviceBody, 0, len(devices)),
	}
	for _, d := range devices {
		resp.Devices = append(resp.Devices, newDeviceBody(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleImpact(w http.ResponseWriter, r *http.Request) {
	if h.catalog.Len() == 0 {
		writeInternalError(w, errNoCatalog)
		return
	}

	var req impactRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", errUnexpectedPayload.Error())
		return
	}

	sel, err := buildSelection(h.catalog, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidSize):
			writeError(w, http.StatusBadRequest, "Invalid size", err.Error(), "Pick one of the sizes listed by GET /api/devices")
		default:
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		}
		return
	}

	start := time.Now()
	report := h.calculator.Calculate(h.catalog, sel)
	summary := equivalence.Summarize(report.Totals, h.goalKg)
	elapsed := time.Since(start)

	resp := impactResponse{
		CatalogVersion: h.catalog.Version(),
		Totals:         report.Totals,
		Equivalence: equivalenceBody{
			Trees:        summary.Trees,
			Cars:         summary.Cars,
			GoalKg:       summary.GoalKg,
			GoalProgress: summary.GoalProgress,
		},
		Display:             summary.Display,
		Breakdown:           report.Breakdown,
		Ignored:             report.Ignored,
		SelectedDeviceTypes: sel.Len(),
		CalculationTimeUs:   elapsed.Microseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// buildSelection admits request items into a Selection: items with a
// quantity of zero or less are dropped before anything else is checked,
// sizes are checked against the catalog, and unknown ids pass through so the
// calculator can report them as ignored.
func buildSelection(cat *catalog.Catalog, items []impactItem) (*impact.Selection, error) {
	sel := impact.NewSelection()

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, errEmptyDeviceID
		}

		entry := impact.Entry{Quantity: item.Quantity}
		if item.Size != nil {
			if device, known := cat.Lookup(id); known {
				if err := device.ValidateSize(*item.Size); err != nil {
					return nil, err
				}
			}
			entry.Size = *item.Size
			entry.HasSize = true
		}

		if err := sel.Add(id, entry); err != nil {
			return nil, err
		}
	}

	return sel, nil
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type impactItem struct {
	ID       string   `json:"id"`
	Quantity int      `json:"quantity"`
	Size     *float64 `json:"size,omitempty"`
}

type impactRequest struct {
	Items []impactItem `json:"items"`
}

type equivalenceBody struct {
	Trees        float64 `json:"trees"`
	Cars         float64 `json:"cars"`
	GoalKg       float64 `json:"goalKg"`
	GoalProgress float64 `json:"goalProgress"`
}

type impactResponse struct {
	CatalogVersion      string                `json:"catalogVersion"`
	Totals              impact.Totals         `json:"totals"`
	Equivalence         equivalenceBody       `json:"equivalence"`
	Display             equivalence.Display   `json:"display"`
	Breakdown           []impact.Contribution `json:"breakdown"`
	Ignored             []string              `json:"ignored"`
	SelectedDeviceTypes int                   `json:"selectedDeviceTypes"`
	CalculationTimeUs   int64                 `json:"calculationTimeUs"`
}

type sizingBody struct {
	Kind          string    `json:"kind"`
	Unit          string    `json:"unit"`
	Scale         string    `json:"scale"`
	ReferenceSize float64   `json:"referenceSize"`
	Sizes         []float64 `json:"sizes"`
}

type deviceBody struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	CO2      float64     `json:"co2"`
	Landfill float64     `json:"landfill"`
	Energy   float64     `json:"energy"`
	Sizing   *sizingBody `json:"sizing,omitempty"`
}

func newDeviceBody(d catalog.DeviceType) deviceBody {
	body := deviceBody{
		ID:       d.ID,
		Name:     d.Name,
		CO2:      d.CO2,
		Landfill: d.Landfill,
		Energy:   d.Energy,
	}
	if d.Sizing.Sized() {
		body.Sizing = &sizingBody{
			Kind:          string(d.Sizing.Kind),
			Unit:          d.Sizing.Unit,
			Scale:         string(d.Sizing.Scale),
			ReferenceSize: d.Sizing.Reference,
			Sizes:         d.Sizing.Sizes,
		}
	}
	return body
}

type devicesResponse struct {
	Version string       `json:"version"`
	GoalKg  float64      `json:"goalKg"`
	Devices []deviceBody `json:"devices"`
}

type healthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	CatalogVersion string    `json:"catalogVersion"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
