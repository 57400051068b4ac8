package observe

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestMiddlewareRecordsDuration(t *testing.T) {
	m, reader := newTestMetrics(t)

	handler := Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/twilio/voice", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, middleware must not rewrite it", rec.Code)
	}

	rm := collect(t, reader)
	md := findMetric(rm, "voiceoutbound.http.request.duration")
	if md == nil {
		t.Fatal("request duration metric not found")
	}
	hist, ok := md.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("metric data type = %T, want Histogram[float64]", md.Data)
	}
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Errorf("histogram = %+v, want one point with count 1", hist.DataPoints)
	}
}

func TestMiddlewarePassesBody(t *testing.T) {
	m, _ := newTestMetrics(t)

	handler := Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Body.String() != "pong" {
		t.Errorf("body = %q, want pong", rec.Body.String())
	}
}
