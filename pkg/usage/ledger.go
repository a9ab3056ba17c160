package usage

import (
	"hash/maphash"
	"sync"
	"time"
)

// shardCount is the number of lock shards in a Ledger. Must be a power
// of two so shard selection reduces to a mask.
const shardCount = 64

// record is the per-identifier usage state.
type record struct {
	// last is the time of the most recent registration. It is the start
	// of the current counting window: every in-window registration moves
	// it forward.
	last time.Time

	// count is the number of registrations since the window started.
	count uint64
}

// shard is one lock-protected slice of the identifier space.
type shard[K comparable] struct {
	mu      sync.RWMutex
	records map[K]record
}

// Ledger tracks usage per identifier and enforces a single Limit.
//
// Identifiers are opaque: any comparable type works (user IDs, channel
// IDs, composite key structs). The ledger imposes no meaning on them.
//
// Records are never removed by Wait or Register; an identifier that has
// registered once is tracked for the ledger's lifetime. Long-running
// processes with high-cardinality identifiers can bound growth with an
// explicit Sweep (see the sweep package for a scheduled variant).
type Ledger[K comparable] struct {
	limit   Limit
	seed    maphash.Seed
	metrics *Metrics
	shards  [shardCount]shard[K]
}

// Option configures a Ledger.
type Option[K comparable] func(*Ledger[K])

// WithMetrics attaches prometheus instrumentation to the ledger.
// The same Metrics value may be shared by several ledgers.
func WithMetrics[K comparable](m *Metrics) Option[K] {
	return func(l *Ledger[K]) {
		l.metrics = m
	}
}

// NewLedger creates an empty ledger enforcing the given limit.
func NewLedger[K comparable](limit Limit, opts ...Option[K]) *Ledger[K] {
	l := &Ledger[K]{
		limit: limit,
		seed:  maphash.MakeSeed(),
	}
	for i := range l.shards {
		l.shards[i].records = make(map[K]record)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Limit returns the limit this ledger enforces.
func (l *Ledger[K]) Limit() Limit {
	return l.limit
}

// shardFor maps an identifier to its shard.
func (l *Ledger[K]) shardFor(id K) *shard[K] {
	h := maphash.Comparable(l.seed, id)
	return &l.shards[h&(shardCount-1)]
}

// Wait returns how long id must wait before its next use is permitted.
//
// It returns (0, false) when id is not limited: no usage is recorded, the
// window has elapsed, or the recorded count is below the limit. Otherwise
// it returns the strictly positive remainder of the window and true.
//
// Wait is a pure read. It never creates or mutates a record and does not
// itself count as a use; call it before Register, as often as needed.
func (l *Ledger[K]) Wait(id K) (time.Duration, bool) {
	s := l.shardFor(id)
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		l.metrics.observeWait(false)
		return 0, false
	}

	elapsed := time.Since(rec.last)
	if rec.count >= l.limit.count && l.limit.window > elapsed {
		l.metrics.observeWait(true)
		return l.limit.window - elapsed, true
	}

	l.metrics.observeWait(false)
	return 0, false
}

// Register records one use for id. Call it once per actual use, after
// Wait has reported the identifier as not limited.
//
// The lookup-and-update is atomic per identifier: concurrent Register
// calls for the same id are serialized and never lose a count. A
// registration after the window has elapsed starts a fresh window with
// count 1; a registration inside the window increments the count and
// moves the window start to now.
func (l *Ledger[K]) Register(id K) {
	s := l.shardFor(id)

	s.mu.Lock()
	now := time.Now()
	rec, ok := s.records[id]
	switch {
	case !ok:
		s.records[id] = record{last: now, count: 1}
	case now.Sub(rec.last) > l.limit.window:
		// Window expired: the count does not carry over.
		s.records[id] = record{last: now, count: 1}
	default:
		s.records[id] = record{last: now, count: rec.count + 1}
	}
	s.mu.Unlock()

	l.metrics.observeRegister(!ok)
}

// Len returns the number of identifiers currently tracked.
func (l *Ledger[K]) Len() int {
	n := 0
	for i := range l.shards {
		s := &l.shards[i]
		s.mu.RLock()
		n += len(s.records)
		s.mu.RUnlock()
	}
	return n
}

// Sweep removes records whose window expired at least grace ago and
// returns the number removed.
//
// Removing an expired record is invisible to Wait and Register: an
// expired record and an absent record behave identically. Sweep exists
// purely to reclaim memory for identifiers that have gone quiet; the
// ledger never calls it on its own.
func (l *Ledger[K]) Sweep(grace time.Duration) int {
	cutoff := l.limit.window + grace
	removed := 0

	for i := range l.shards {
		s := &l.shards[i]
		s.mu.Lock()
		now := time.Now()
		for id, rec := range s.records {
			if now.Sub(rec.last) > cutoff {
				delete(s.records, id)
				removed++
			}
		}
		s.mu.Unlock()
	}

	l.metrics.observeSweep(removed)
	return removed
}
