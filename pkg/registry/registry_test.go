package registry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/usage"
)

func parseConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}
	return cfg
}

func TestRegistry_LookupAndNames(t *testing.T) {
	cfg := parseConfig(t, `
policies:
  greet-user:
    window: 10s
    count: 1
  greet-channel:
    window: 30s
    count: 5
`)

	reg, err := New[uint64](cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	users, ok := reg.Lookup("greet-user")
	if !ok {
		t.Fatal("Expected greet-user policy to exist")
	}
	if users.Limit() != usage.MustLimit(10*time.Second, 1) {
		t.Errorf("Unexpected limit %v", users.Limit())
	}

	if _, ok := reg.Lookup("unknown"); ok {
		t.Error("Expected lookup of unknown policy to fail")
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "greet-channel" || names[1] != "greet-user" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestRegistry_RejectsInvalidPolicy(t *testing.T) {
	// Bypass config validation to exercise the registry's own check.
	cfg := &config.Config{
		Policies: map[string]config.Policy{
			"broken": {Window: config.Duration(time.Second), Count: 0},
		},
	}

	if _, err := New[uint64](cfg); err == nil {
		t.Fatal("Expected error for zero-count policy")
	}
}

func TestRegistry_ReloadKeepsUnchangedState(t *testing.T) {
	cfg := parseConfig(t, `
policies:
  greet-user:
    window: 1m
    count: 1
`)

	reg, err := New[uint64](cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	before, _ := reg.Lookup("greet-user")
	before.Register(42)

	if err := reg.Reload(parseConfig(t, `
policies:
  greet-user:
    window: 1m
    count: 1
`)); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	after, ok := reg.Lookup("greet-user")
	if !ok {
		t.Fatal("Expected policy to survive reload")
	}
	if after != before {
		t.Error("Expected unchanged policy to keep its ledger")
	}
	if _, limited := after.Wait(42); !limited {
		t.Error("Expected recorded usage to survive reload")
	}
}

func TestRegistry_ReloadResetsChangedPolicy(t *testing.T) {
	cfg := parseConfig(t, `
policies:
  greet-user:
    window: 1m
    count: 1
`)

	reg, err := New[uint64](cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	before, _ := reg.Lookup("greet-user")
	before.Register(42)

	if err := reg.Reload(parseConfig(t, `
policies:
  greet-user:
    window: 1m
    count: 5
`)); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	after, _ := reg.Lookup("greet-user")
	if after == before {
		t.Error("Expected changed policy to get a fresh ledger")
	}
	if _, limited := after.Wait(42); limited {
		t.Error("Expected fresh ledger to carry no usage")
	}
}

func TestRegistry_ReloadAddsAndRemoves(t *testing.T) {
	reg, err := New[uint64](parseConfig(t, `
policies:
  old:
    window: 10s
    count: 1
`))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := reg.Reload(parseConfig(t, `
policies:
  new:
    window: 10s
    count: 1
`)); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if _, ok := reg.Lookup("old"); ok {
		t.Error("Expected removed policy to be dropped")
	}
	if _, ok := reg.Lookup("new"); !ok {
		t.Error("Expected added policy to exist")
	}
}

func TestRegistry_SweepCoversAllLedgers(t *testing.T) {
	reg, err := New[uint64](parseConfig(t, `
policies:
  a:
    window: 50ms
    count: 1
  b:
    window: 50ms
    count: 1
`))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a, _ := reg.Lookup("a")
	b, _ := reg.Lookup("b")
	a.Register(1)
	b.Register(2)
	b.Register(3)

	time.Sleep(100 * time.Millisecond)

	if removed := reg.Sweep(0); removed != 3 {
		t.Errorf("Expected 3 swept records across ledgers, got %d", removed)
	}
}

func TestRegistry_SharedMetrics(t *testing.T) {
	promReg := prometheus.NewRegistry()
	metrics := usage.NewMetricsWith(promReg)

	reg, err := New[uint64](parseConfig(t, `
policies:
  a:
    window: 1m
    count: 1
  b:
    window: 1m
    count: 1
`), WithMetrics[uint64](metrics))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a, _ := reg.Lookup("a")
	b, _ := reg.Lookup("b")
	a.Register(1)
	b.Register(1)

	// Both ledgers feed the same instrumentation.
	families, err := promReg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	var registrations float64
	for _, family := range families {
		if family.GetName() == "ganymede_usage_registrations_total" {
			registrations = family.GetMetric()[0].GetCounter().GetValue()
		}
	}
	if registrations != 2 {
		t.Errorf("Expected 2 registrations across the registry, got %v", registrations)
	}
}
