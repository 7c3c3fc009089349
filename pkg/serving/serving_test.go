package serving

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sapmachine/vitals/pkg/reporting"
	"github.com/sapmachine/vitals/pkg/vitals"
)

type heapSampler struct {
	used  *vitals.Column
	gc    *vitals.Column
	value uint64
	gcs   uint64
}

func (s *heapSampler) Name() string { return "heap" }

func (s *heapSampler) Define(r *vitals.Registry) {
	s.used = r.Define(vitals.Column{
		Category:    "heap",
		Name:        "used",
		Description: "Bytes of live heap",
		Kind:        vitals.KindMemorySize,
	}, true)
	s.gc = r.Define(vitals.Column{
		Category:     "heap",
		Name:         "gc",
		Description:  "Completed collection cycles",
		Kind:         vitals.KindDelta,
		OnlyPositive: true,
	}, true)
}

func (s *heapSampler) Sample(out *vitals.Sample, _ vitals.SampleContext) {
	out.SetValue(s.used.Index(), s.value)
	out.SetValue(s.gc.Index(), s.gcs)
}

func newTestServer(t *testing.T) (*Server, *heapSampler, *vitals.Engine) {
	t.Helper()
	e := vitals.New(vitals.Options{
		Now:    func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		Logger: zerolog.Nop(),
	})
	s := &heapSampler{value: 1 << 20, gcs: 7}
	e.RegisterSampler(s)
	e.Freeze()
	e.SampleNow(false)
	return New(":0", e, reporting.Defaults(), zerolog.Nop()), s, e
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return rec.Code, string(body)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	code, body := get(t, srv.Handler(), "/healthz")
	if code != http.StatusOK || !strings.Contains(body, "ok") {
		t.Fatalf("healthz: %d %q", code, body)
	}
}

func TestTableEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	code, body := get(t, srv.Handler(), "/vitals")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if !strings.Contains(body, "used") || !strings.Contains(body, "12:00:00") {
		t.Fatalf("table body missing columns:\n%s", body)
	}
	if !strings.Contains(body, "1m") {
		t.Fatalf("memory value not scaled:\n%s", body)
	}
}

func TestTableEndpointQueryOverrides(t *testing.T) {
	srv, _, _ := newTestServer(t)
	_, body := get(t, srv.Handler(), "/vitals?raw&no_legend")
	if !strings.Contains(body, "1048576") {
		t.Fatalf("raw override ignored:\n%s", body)
	}
	if strings.Contains(body, "--heap--") {
		t.Fatalf("no_legend override ignored:\n%s", body)
	}
}

func TestCSVEndpoint(t *testing.T) {
	srv, _, e := newTestServer(t)
	e.SampleNow(false)
	code, body := get(t, srv.Handler(), "/vitals.csv")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if lines[0] != "heap-used,heap-gc" {
		t.Fatalf("csv header %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("want 2 data rows, got %d lines", len(lines))
	}
	if lines[1] != "1048576,7" {
		t.Fatalf("csv row %q", lines[1])
	}
}

func TestLegendEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	_, body := get(t, srv.Handler(), "/legend")
	if !strings.Contains(body, "Bytes of live heap") {
		t.Fatalf("legend missing description:\n%s", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	code, body := get(t, srv.Handler(), "/metrics")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if !strings.Contains(body, "vitals_heap_used_bytes 1.048576e+06") {
		t.Fatalf("gauge missing:\n%s", body)
	}
	if !strings.Contains(body, "vitals_heap_gc_total 7") {
		t.Fatalf("counter missing:\n%s", body)
	}
}

func TestCollectorSkipsInvalid(t *testing.T) {
	e := vitals.New(vitals.Options{Logger: zerolog.Nop()})
	s := &heapSampler{value: vitals.Invalid, gcs: 3}
	e.RegisterSampler(s)
	e.Freeze()
	e.SampleNow(false)

	srv := New(":0", e, reporting.Defaults(), zerolog.Nop())
	_, body := get(t, srv.Handler(), "/metrics")
	if strings.Contains(body, "vitals_heap_used_bytes") {
		t.Fatalf("invalid reading exported:\n%s", body)
	}
	if !strings.Contains(body, "vitals_heap_gc_total 3") {
		t.Fatalf("valid reading missing:\n%s", body)
	}
}
