package provider

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

// testProvider implements the Provider interface for testing.
type testProvider struct {
	name      string
	available bool
}

func (p *testProvider) Name() string                     { return p.name }
func (p *testProvider) IsAvailable(context.Context) bool { return p.available }

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.Register("local", &testProvider{name: "local", available: true})

	p, ok := reg.Get("local")
	if !ok || p.Name() != "local" {
		t.Fatalf("Get = %v, %v", p, ok)
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("expected Get to miss unknown name")
	}
}

func TestRegistryMustGet(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	_, err := reg.MustGet("missing")
	if err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Fatalf("err = %v", err)
	}
}

func TestRegistryNamesKeepOrder(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.Register("cloud", &testProvider{name: "cloud"})
	reg.Register("local", &testProvider{name: "local"})
	reg.Register("cloud", &testProvider{name: "cloud-2"})

	if got := reg.Names(); !reflect.DeepEqual(got, []string{"cloud", "local"}) {
		t.Errorf("Names() = %v", got)
	}
	if p, _ := reg.Get("cloud"); p.Name() != "cloud-2" {
		t.Errorf("re-register should replace, got %q", p.Name())
	}
	if len(reg.All()) != 2 {
		t.Errorf("All() len = %d", len(reg.All()))
	}
}

func TestPrioritySelector(t *testing.T) {
	providers := map[string]*testProvider{
		"local": {name: "local", available: false},
		"cloud": {name: "cloud", available: true},
	}
	sel := &PrioritySelector[*testProvider]{Priority: []string{"local", "cloud"}}

	p, err := sel.Select(context.Background(), providers)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if p.Name() != "cloud" {
		t.Errorf("expected cloud, got %q", p.Name())
	}

	providers["cloud"].available = false
	if _, err := sel.Select(context.Background(), providers); err == nil {
		t.Error("expected error when nothing is available")
	}
}
