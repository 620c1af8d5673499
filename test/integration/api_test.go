package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/ewaste-impact/internal/api"
	"github.com/eugenenazirov/ewaste-impact/internal/catalog"
	"github.com/eugenenazirov/ewaste-impact/internal/impact"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	handler := api.NewHandler(impact.New(), catalog.Default())
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/devices", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from devices, got %d", rec.Code)
	}
	var devices struct {
		Devices []struct {
			ID     string `json:"id"`
			Sizing *struct {
				Sizes []float64 `json:"sizes"`
			} `json:"sizing"`
		} `json:"devices"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&devices); err != nil {
		t.Fatalf("decode devices: %v", err)
	}

	// Build a selection the way the browser form does: one of every device,
	// sized devices at their largest option.
	items := make([]map[string]any, 0, len(devices.Devices))
	for _, d := range devices.Devices {
		item := map[string]any{"id": d.ID, "quantity": 1}
		if d.Sizing != nil {
			item["size"] = d.Sizing.Sizes[len(d.Sizing.Sizes)-1]
		}
		items = append(items, item)
	}
	body, _ := json.Marshal(map[string]any{"items": items})

	rec = performRequest(t, handler, http.MethodPost, "/api/impact", body, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from impact, got %d: %s", rec.Code, rec.Body.String())
	}

	var response struct {
		Totals struct {
			CO2 float64 `json:"co2"`
		} `json:"totals"`
		Breakdown []struct {
			ID string `json:"id"`
		} `json:"breakdown"`
		Ignored []string `json:"ignored"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// smartphone 35 + laptop 180 + tablet 65 + monitor 80*34/24 + tv 200*75/50 + headphones 8
	want := 35 + 180 + 65 + 80*34.0/24 + 200*75.0/50 + 8
	if diff := response.Totals.CO2 - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected co2 %v, got %v", want, response.Totals.CO2)
	}
	if len(response.Breakdown) != len(devices.Devices) {
		t.Fatalf("expected %d breakdown lines, got %d", len(devices.Devices), len(response.Breakdown))
	}
	if len(response.Ignored) != 0 {
		t.Fatalf("expected nothing ignored, got %v", response.Ignored)
	}
}

func TestIntegrationRejectsUnofferedSize(t *testing.T) {
	handler := newRouter(t)

	body := []byte(`{"items":[{"id":"tv","quantity":1,"size":48}]}`)
	rec := performRequest(t, handler, http.MethodPost, "/api/impact", body, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unoffered size, got %d", rec.Code)
	}
}
