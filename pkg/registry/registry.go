package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/usage"
)

// Registry holds one usage ledger per named policy. All ledgers share
// the identifier type K.
//
// Registry is safe for concurrent use. Lookup is a read-locked map
// access; Reload swaps the set of ledgers atomically.
type Registry[K comparable] struct {
	mu      sync.RWMutex
	ledgers map[string]*usage.Ledger[K]

	metrics *usage.Metrics
	logger  *slog.Logger
}

// Option configures a Registry.
type Option[K comparable] func(*Registry[K])

// WithMetrics attaches shared prometheus instrumentation to every ledger
// the registry creates, now and on future reloads.
func WithMetrics[K comparable](m *usage.Metrics) Option[K] {
	return func(r *Registry[K]) {
		r.metrics = m
	}
}

// WithLogger sets the logger used for reload reporting.
func WithLogger[K comparable](logger *slog.Logger) Option[K] {
	return func(r *Registry[K]) {
		r.logger = logger
	}
}

// New builds a registry from a loaded policy configuration.
func New[K comparable](cfg *config.Config, opts ...Option[K]) (*Registry[K], error) {
	r := &Registry[K]{
		ledgers: make(map[string]*usage.Ledger[K]),
		logger:  slog.Default().With("component", "usage.registry"),
	}
	for _, opt := range opts {
		opt(r)
	}

	for name, policy := range cfg.Policies {
		limit, err := policyLimit(name, policy)
		if err != nil {
			return nil, err
		}
		r.ledgers[name] = r.newLedger(limit)
	}

	return r, nil
}

// Lookup returns the ledger for a named policy.
func (r *Registry[K]) Lookup(name string) (*usage.Ledger[K], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ledger, ok := r.ledgers[name]
	return ledger, ok
}

// Names returns the sorted names of all registered policies.
func (r *Registry[K]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ledgers))
	for name := range r.ledgers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload applies a new configuration.
//
// Policies whose limit is unchanged keep their ledger and all recorded
// usage. Policies with a changed limit get a fresh, empty ledger: usage
// recorded under the old limit is not comparable with the new one.
// Policies absent from the new configuration are dropped.
func (r *Registry[K]) Reload(cfg *config.Config) error {
	next := make(map[string]*usage.Ledger[K], len(cfg.Policies))

	r.mu.Lock()
	defer r.mu.Unlock()

	for name, policy := range cfg.Policies {
		limit, err := policyLimit(name, policy)
		if err != nil {
			return err
		}

		if existing, ok := r.ledgers[name]; ok {
			if existing.Limit() == limit {
				next[name] = existing
				continue
			}
			r.logger.Info("policy changed, resetting ledger",
				"policy", name,
				"old_limit", existing.Limit().String(),
				"new_limit", limit.String(),
			)
		} else {
			r.logger.Info("policy added", "policy", name, "limit", limit.String())
		}
		next[name] = r.newLedger(limit)
	}

	for name := range r.ledgers {
		if _, ok := next[name]; !ok {
			r.logger.Info("policy removed", "policy", name)
		}
	}

	r.ledgers = next
	return nil
}

// Sweep removes stale records from every ledger and returns the total
// removed. It satisfies the sweep package's Target interface, so a whole
// registry can be handed to a scheduled sweeper.
func (r *Registry[K]) Sweep(grace time.Duration) int {
	r.mu.RLock()
	ledgers := make([]*usage.Ledger[K], 0, len(r.ledgers))
	for _, ledger := range r.ledgers {
		ledgers = append(ledgers, ledger)
	}
	r.mu.RUnlock()

	removed := 0
	for _, ledger := range ledgers {
		removed += ledger.Sweep(grace)
	}
	return removed
}

func (r *Registry[K]) newLedger(limit usage.Limit) *usage.Ledger[K] {
	if r.metrics != nil {
		return usage.NewLedger[K](limit, usage.WithMetrics[K](r.metrics))
	}
	return usage.NewLedger[K](limit)
}

func policyLimit(name string, policy config.Policy) (usage.Limit, error) {
	limit, err := usage.NewLimit(time.Duration(policy.Window), policy.Count)
	if err != nil {
		return usage.Limit{}, fmt.Errorf("policy %q: %w", name, err)
	}
	return limit, nil
}
