package component

import (
	"context"
	"fmt"
	"testing"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("expected non-nil registry")
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "store", health: Health{Name: "store", Status: StatusHealthy}}

	if err := r.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "store"}
	r.Register(c)

	err := r.Register(&mockComponent{name: "store"})
	if err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "store"}
	r.Register(c)

	got := r.Get("store")
	if got == nil {
		t.Fatal("expected to get registered component")
	}
	if got.Name() != "store" {
		t.Errorf("expected 'store', got %q", got.Name())
	}
}

func TestGetNotFound(t *testing.T) {
	r := NewRegistry()
	got := r.Get("missing")
	if got != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAll(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{
		name: "store", startOrder: &order,
		health: Health{Name: "store", Status: StatusHealthy},
	})
	r.Register(&mockComponent{
		name: "engine", startOrder: &order,
		health: Health{Name: "engine", Status: StatusHealthy},
	})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}

	if len(order) != 2 {
		t.Fatalf("expected 2 starts, got %d", len(order))
	}
	if order[0] != "store" || order[1] != "engine" {
		t.Errorf("expected start order [store, engine], got %v", order)
	}
}

func TestStartAllError(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "store", startErr: fmt.Errorf("connection refused")})

	err := r.StartAll(context.Background())
	if err == nil {
		t.Error("expected error from StartAll")
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{name: "store", stopOrder: &order, health: Health{Name: "store", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "engine", stopOrder: &order, health: Health{Name: "engine", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "telemetry", stopOrder: &order, health: Health{Name: "telemetry", Status: StatusHealthy}})

	r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	if len(order) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(order))
	}
	if order[0] != "telemetry" || order[1] != "engine" || order[2] != "store" {
		t.Errorf("expected reverse stop order [telemetry, engine, store], got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "store", stopOrder: &order})

	// Don't start, then stop
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllWithErrors(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{
		name: "store", stopErr: fmt.Errorf("stop failed"),
		health: Health{Name: "store", Status: StatusHealthy},
	})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Error("expected error from StopAll")
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{
		name:   "store",
		health: Health{Name: "store", Status: StatusHealthy, Message: "connected"},
	})
	r.Register(&mockComponent{
		name:   "engine",
		health: Health{Name: "engine", Status: StatusUnhealthy, Message: "timeout"},
	})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy {
		t.Errorf("expected store healthy, got %s", results[0].Status)
	}
	if results[1].Status != StatusUnhealthy {
		t.Errorf("expected engine unhealthy, got %s", results[1].Status)
	}
}

func TestHealthStatusConstants(t *testing.T) {
	if StatusHealthy != "healthy" {
		t.Errorf("expected 'healthy', got %q", StatusHealthy)
	}
	if StatusUnhealthy != "unhealthy" {
		t.Errorf("expected 'unhealthy', got %q", StatusUnhealthy)
	}
	if StatusDegraded != "degraded" {
		t.Errorf("expected 'degraded', got %q", StatusDegraded)
	}
}

func TestStartAllRollsBackOnFailure(t *testing.T) {
	r := NewRegistry()
	stopped := []string{}

	_ = r.Register(&mockComponent{name: "store", stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "engine", stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "telemetry", startErr: fmt.Errorf("exporter unreachable"), stopOrder: &stopped})

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	if len(stopped) != 2 || stopped[0] != "engine" || stopped[1] != "store" {
		t.Errorf("expected rollback [engine, store], got %v", stopped)
	}

	// Nothing is left running.
	stopped = stopped[:0]
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(stopped) != 0 {
		t.Errorf("expected no further stops, got %v", stopped)
	}
}

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "engine", Details: "model=base.en"}
}

func TestDescribe(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "store"})
	_ = r.Register(&describedComponent{mockComponent{name: "local-engine"}})

	descs := r.Describe()
	if len(descs) != 1 {
		t.Fatalf("expected 1 description, got %d", len(descs))
	}
	if descs[0].Name != "local-engine" || descs[0].Details != "model=base.en" {
		t.Errorf("unexpected description %+v", descs[0])
	}
}
