package health_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/classroom/internal/health"
	"github.com/prometheus/client_golang/prometheus"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestChecker(deps ...health.Dependency) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	logger := slog.Default()
	return health.NewChecker(logger, reg, deps...), reg
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker(health.Dependency{Name: "postgres", Pinger: &mockPinger{err: errors.New("db down")}})

	result := c.Liveness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
}

func TestReadiness_AllUp(t *testing.T) {
	c, reg := newTestChecker(
		health.Dependency{Name: "postgres", Pinger: &mockPinger{}},
		health.Dependency{Name: "redis", Pinger: health.PingFunc(func(context.Context) error { return nil })},
	)

	result := c.Readiness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	for _, name := range []string{"postgres", "redis"} {
		if result.Checks[name].Status != "up" {
			t.Errorf("expected %s up, got %+v", name, result.Checks[name])
		}
		if gauge := testGauge(t, reg, "classroom_health_check_up", name); gauge != 1 {
			t.Errorf("expected %s gauge 1, got %f", name, gauge)
		}
	}
}

func TestReadiness_OneDependencyDown(t *testing.T) {
	c, reg := newTestChecker(
		health.Dependency{Name: "postgres", Pinger: &mockPinger{}},
		health.Dependency{Name: "redis", Pinger: &mockPinger{err: errors.New("connection refused")}},
	)

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	rd := result.Checks["redis"]
	if rd.Status != "down" || rd.Error == "" {
		t.Fatalf("expected redis down with error, got %+v", rd)
	}
	if result.Checks["postgres"].Status != "up" {
		t.Fatal("postgres should still be up")
	}

	if gauge := testGauge(t, reg, "classroom_health_check_up", "redis"); gauge != 0 {
		t.Fatalf("expected gauge 0, got %f", gauge)
	}
}

func TestReadinessHandler_StatusCodes(t *testing.T) {
	up, _ := newTestChecker(health.Dependency{Name: "postgres", Pinger: &mockPinger{}})
	down, _ := newTestChecker(health.Dependency{Name: "postgres", Pinger: &mockPinger{err: errors.New("x")}})

	for _, tt := range []struct {
		name string
		c    *health.Checker
		want int
	}{
		{"up", up, http.StatusOK},
		{"down", down, http.StatusServiceUnavailable},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.c.ReadinessHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func testGauge(t *testing.T, reg *prometheus.Registry, name, depLabel string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "dependency" && lp.GetValue() == depLabel {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{dependency=%q} not found", name, depLabel)
	return 0
}
