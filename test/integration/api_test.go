package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/shipment-planner/internal/application"
	"github.com/eugenenazirov/shipment-planner/internal/config"
	"github.com/eugenenazirov/shipment-planner/internal/shipment"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.Config{
		Port:            ":0",
		DefaultStrategy: "by-medium",
		LogLevel:        "info",
		WriteTimeout:    time.Second,
	}
	app, err := application.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("application.New returned error: %v", err)
	}
	return app.Handler()
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

func packageRequest(t *testing.T, handler http.Handler, payload map[string]any) shipment.Report {
	t.Helper()

	body, _ := json.Marshal(payload)
	rec := performRequest(t, handler, http.MethodPost, "/api/package", body, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from package, got %d: %s", rec.Code, rec.Body.String())
	}

	var report shipment.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return report
}

func glassPrint(id string, length, width float64, qty int) map[string]any {
	return map[string]any{
		"id": id, "category": "paper_print", "material": "glass",
		"length": length, "width": width, "quantity": qty,
	}
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	report := packageRequest(t, handler, map[string]any{
		"items": []any{glassPrint("a", 33, 43, 11), glassPrint("b", 31, 55, 1), glassPrint("c", 34, 47, 1)},
	})
	if report.Weights.FinalWeight != 247 {
		t.Fatalf("expected final weight 247, got %d", report.Weights.FinalWeight)
	}
	if len(report.Freight) != 1 || report.Freight[0].Line != "56x37x36 @ 265 lbs" {
		t.Fatalf("unexpected freight lines: %+v", report.Freight)
	}

	updatePayload := map[string]any{
		"containers": []any{map[string]any{
			"type": "standard_pallet", "length": 48, "width": 40, "tare": 45, "maxBoxes": 4,
			"allowed": []string{"standard", "small_parcel", "large_parcel"},
		}},
	}
	payload, _ := json.Marshal(updatePayload)
	rec = performRequest(t, handler, http.MethodPut, "/api/catalog", payload, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from catalog update, got %d", rec.Code)
	}

	report = packageRequest(t, handler, map[string]any{
		"items": []any{glassPrint("g", 36, 44, 70)},
	})
	if report.Packing.BoxCount != 12 {
		t.Fatalf("expected 12 boxes, got %d", report.Packing.BoxCount)
	}
	if report.Packing.ContainerCount != 3 {
		t.Fatalf("expected 3 pallets, got %d", report.Packing.ContainerCount)
	}
	if report.Weights.PackagingWeight != 135 || report.Weights.FinalWeight != 1255 {
		t.Fatalf("expected packaging 135 and final 1255, got %+v", report.Weights)
	}
}

func TestIntegrationUndeliverable(t *testing.T) {
	handler := newRouter(t)

	report := packageRequest(t, handler, map[string]any{
		"items":    []any{glassPrint("a", 20, 16, 2)},
		"delivery": map[string]any{"acceptsPallets": false, "acceptsCrates": false},
	})
	if len(report.Boxes) != 1 {
		t.Fatalf("expected one box, got %d", len(report.Boxes))
	}
	if len(report.Containers) != 0 || len(report.UnassignedBoxes) != 1 {
		t.Fatalf("expected the box to be unassigned, got %+v", report.UnassignedBoxes)
	}
	if report.Metadata.UnassignedBoxes != 1 || len(report.Metadata.Errors) != 1 {
		t.Fatalf("expected run metadata to record the unloaded box, got %+v", report.Metadata)
	}
}
