package sweep

import (
	"sort"
	"sync"
	"time"
)

// Aggregator accumulates probe results and progress counters for one sweep.
// It is safe for concurrent Record calls from all workers; Snapshot never
// blocks a recorder for longer than a single counter update.
type Aggregator struct {
	mu      sync.Mutex
	results []ProbeResult
	scanned uint64
	open    uint64
	found   uint64
	total   uint64
	started time.Time

	subs   map[chan Progress]struct{}
	closed bool
}

// NewAggregator creates an aggregator expecting total targets.
func NewAggregator(total uint64) *Aggregator {
	return &Aggregator{
		total:   total,
		started: time.Now(),
		subs:    make(map[chan Progress]struct{}),
	}
}

// Record stores one result and bumps the progress counters. Results are
// immutable once recorded.
func (a *Aggregator) Record(result ProbeResult) {
	a.mu.Lock()
	a.results = append(a.results, result)
	a.scanned++
	if result.Open {
		a.open++
	}
	if result.Open && result.Device != DeviceUnknown {
		a.found++
	}
	progress := a.progressLocked()
	a.publishLocked(progress)
	a.mu.Unlock()
}

// Snapshot returns a consistent point-in-time progress view.
func (a *Aggregator) Snapshot() Progress {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.progressLocked()
}

// Results returns a copy of all recorded results ordered by ascending
// address, then by port, for deterministic export.
func (a *Aggregator) Results() []ProbeResult {
	a.mu.Lock()
	out := make([]ProbeResult, len(a.results))
	copy(out, a.results)
	a.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Target.Addr != out[j].Target.Addr {
			return out[i].Target.Addr < out[j].Target.Addr
		}
		return out[i].Target.Port < out[j].Target.Port
	})
	return out
}

// Open returns only the results with an open port, in the same order.
func (a *Aggregator) Open() []ProbeResult {
	all := a.Results()
	open := make([]ProbeResult, 0, len(all))
	for _, r := range all {
		if r.Open {
			open = append(open, r)
		}
	}
	return open
}

// Subscribe registers a progress listener. Delivery is best-effort: a slow
// subscriber drops updates rather than stalling workers.
func (a *Aggregator) Subscribe() chan Progress {
	ch := make(chan Progress, 64)
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		close(ch)
		return ch
	}
	a.subs[ch] = struct{}{}
	a.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a listener channel.
func (a *Aggregator) Unsubscribe(ch chan Progress) {
	a.mu.Lock()
	_, ok := a.subs[ch]
	delete(a.subs, ch)
	a.mu.Unlock()
	if ok {
		close(ch)
	}
}

// closeSubscribers closes all listener channels at end of sweep. Any later
// Subscribe hands back an already-closed channel.
func (a *Aggregator) closeSubscribers() {
	a.mu.Lock()
	for ch := range a.subs {
		close(ch)
	}
	a.subs = make(map[chan Progress]struct{})
	a.closed = true
	a.mu.Unlock()
}

func (a *Aggregator) progressLocked() Progress {
	return Progress{
		Scanned: a.scanned,
		Total:   a.total,
		Open:    a.open,
		Found:   a.found,
		Elapsed: time.Since(a.started),
	}
}

func (a *Aggregator) publishLocked(p Progress) {
	for ch := range a.subs {
		select {
		case ch <- p:
		default:
		}
	}
}
