package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequestCountsByStatusClass(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/v1/products", 200, 15*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/products", 200, 22*time.Millisecond)
	m.ObserveRequest("POST", "/api/v1/products", 422, 5*time.Millisecond)

	ok := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/products", "2xx"))
	if ok != 2 {
		t.Fatalf("expected 2 successful requests, got %v", ok)
	}
	bad := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/v1/products", "4xx"))
	if bad != 1 {
		t.Fatalf("expected 1 client error, got %v", bad)
	}
}

func TestObserveRequestNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/", 200, time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("GET", "/", 200, time.Millisecond)
}
