package promexp

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExporter_Observe(t *testing.T) {
	e := New(":0")

	e.Observe(0.010, false, false)
	e.Observe(0.020, false, true)
	e.Observe(0.900, true, false)

	if got := testutil.ToFloat64(e.requests.WithLabelValues("ok")); got != 2 {
		t.Errorf(`requests{result="ok"} = %v, want 2`, got)
	}
	if got := testutil.ToFloat64(e.requests.WithLabelValues("error")); got != 1 {
		t.Errorf(`requests{result="error"} = %v, want 1`, got)
	}
	if got := testutil.ToFloat64(e.signals); got != 1 {
		t.Errorf("signals = %v, want 1", got)
	}
}

func TestExporter_Handler(t *testing.T) {
	e := New(":0")
	e.Observe(0.005, false, true)

	srv := httptest.NewServer(e.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading metrics body: %v", err)
	}

	for _, metric := range []string{
		"httpmon_requests_total",
		"httpmon_signals_total",
		"httpmon_request_duration_seconds",
	} {
		if !strings.Contains(string(body), metric) {
			t.Errorf("metrics output missing %s", metric)
		}
	}
}
