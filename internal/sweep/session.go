package sweep

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/adbsweep/adbsweep/internal/errors"
	"github.com/adbsweep/adbsweep/internal/logging"
	"github.com/adbsweep/adbsweep/internal/metrics"
)

// State is the lifecycle state of a sweep session.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session owns one sweep: its configuration, generator, aggregator, and
// worker pool. A session is created by Start, lives until completion or
// cancellation, and is never reused.
//
// Cancellation is cooperative: workers check the session context between
// target pulls, never mid-probe, so in-flight probes drain within one
// timeout interval of a Cancel call.
type Session struct {
	ID uuid.UUID

	cfg    ValidatedConfig
	gen    *Generator
	agg    *Aggregator
	prober *Prober

	ctx    context.Context
	cancel context.CancelFunc

	state       atomic.Int32
	canceled    atomic.Bool
	failed      atomic.Bool
	liveWorkers atomic.Int32
	respawns    atomic.Int32

	wg      sync.WaitGroup
	done    chan struct{}
	started time.Time
	err     error
}

// Start begins a sweep over the validated configuration and returns
// immediately. Progress, Results, and Cancel may be called at any time
// from any goroutine.
func Start(cfg ValidatedConfig) *Session {
	return start(cfg, NewProber(cfg))
}

func start(cfg ValidatedConfig, prober *Prober) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ID:      uuid.New(),
		cfg:     cfg,
		gen:     NewGenerator(cfg),
		agg:     NewAggregator(cfg.TargetCount()),
		prober:  prober,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		started: time.Now(),
	}
	s.state.Store(int32(StateRunning))
	s.respawns.Store(int32(cfg.Threads))

	logging.InfoSweep("Sweep started", s.ID.String(),
		"targets", s.gen.Total(),
		"threads", cfg.Threads,
		"timeout", cfg.Timeout,
		"skip_ping", cfg.SkipPing)

	pm := metrics.GetGlobalMetrics()
	pm.SweepStarted()
	pm.SetActiveWorkers(cfg.Threads)
	metrics.SetActiveWorkers(cfg.Threads)

	for i := 0; i < cfg.Threads; i++ {
		s.spawnWorker(i)
	}

	go s.finalize()
	return s
}

// Progress returns a pollable point-in-time snapshot.
func (s *Session) Progress() Progress {
	return s.agg.Snapshot()
}

// Results returns the results recorded so far, ordered by ascending
// address then port. Safe to call at any time; the slice is a copy.
func (s *Session) Results() []ProbeResult {
	return s.agg.Results()
}

// Subscribe registers a progress listener on the session's aggregator.
func (s *Session) Subscribe() chan Progress {
	return s.agg.Subscribe()
}

// Unsubscribe removes a progress listener.
func (s *Session) Unsubscribe(ch chan Progress) {
	s.agg.Unsubscribe(ch)
}

// Cancel requests cooperative cancellation. Idempotent. Workers stop
// pulling new targets immediately; in-flight probes run to their own
// timeout before the session reaches the cancelled state.
func (s *Session) Cancel() {
	if s.canceled.CompareAndSwap(false, true) {
		logging.InfoSweep("Sweep cancellation requested", s.ID.String())
	}
	s.cancel()
}

// Done reports whether the session reached a terminal state.
func (s *Session) Done() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the session reaches a terminal state or the given
// context expires.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Err returns the terminal error, if any. Only a total worker failure
// produces one; probe failures stay on their individual results.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (s *Session) spawnWorker(id int) {
	s.liveWorkers.Add(1)
	s.wg.Add(1)
	go s.worker(id)
}

// worker pulls targets from the shared generator until it is exhausted or
// the session context is canceled. A panic kills only this worker: the
// in-flight target is recorded as a worker fault and the pool spawns a
// replacement while the respawn budget lasts. When the budget is spent and
// the last worker dies, the session fails.
func (s *Session) worker(id int) {
	var current Target
	var probing bool

	defer func() {
		r := recover()
		live := s.liveWorkers.Add(-1)
		if r != nil {
			if probing {
				s.record(ProbeResult{
					Target: current,
					Device: DeviceUnknown,
					Err: errors.NewProbeError(errors.KindWorkerFault, current.String(),
						fmt.Errorf("worker panic: %v", r)),
				})
			}
			logging.Error("Worker crashed",
				"session_id", s.ID.String(),
				"worker_id", id,
				"panic", fmt.Sprint(r))
			if s.ctx.Err() == nil && s.respawns.Add(-1) >= 0 {
				s.spawnWorker(id)
			} else if live == 0 {
				s.failed.Store(true)
			}
		}
		s.wg.Done()
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		t, ok := s.gen.Next()
		if !ok {
			return
		}

		// Probes deliberately do not inherit the session context:
		// cancellation is checked between targets, and an in-flight probe
		// is bounded by its own timeout.
		current, probing = t, true
		result := s.prober.Probe(context.Background(), t)
		probing = false
		s.record(result)
	}
}

func (s *Session) record(result ProbeResult) {
	s.agg.Record(result)

	pm := metrics.GetGlobalMetrics()
	portStatus := "closed"
	if result.Open {
		portStatus = "open"
	}
	pm.RecordProbe(portStatus, string(result.Device), result.Elapsed)
	metrics.IncrementTargetsScanned(portStatus)
	if result.Err != nil {
		pm.IncrementProbeErrors(string(errors.GetKind(result.Err)))
	}
	if result.Open && result.Device != DeviceUnknown {
		pm.IncrementDevicesFound(string(result.Device))
		metrics.IncrementDevicesFound(string(result.Device))
		logging.Info("Device found",
			"session_id", s.ID.String(),
			"target", result.Target.String(),
			"device_type", result.Device,
			"elapsed", result.Elapsed)
	}
}

// finalize waits for all workers to drain and settles the terminal state.
func (s *Session) finalize() {
	s.wg.Wait()

	final := StateCompleted
	switch {
	case s.canceled.Load():
		final = StateCancelled
	case s.failed.Load():
		final = StateFailed
		s.err = errors.NewSessionError(errors.KindScanFailed, "all workers exited abnormally")
	}
	s.state.Store(int32(final))
	s.cancel()

	elapsed := time.Since(s.started)
	progress := s.agg.Snapshot()

	pm := metrics.GetGlobalMetrics()
	pm.IncrementSweepsTotal(strings.ToLower(final.String()))
	pm.RecordSweepDuration(elapsed)
	pm.SetActiveWorkers(0)
	pm.SweepFinished()
	metrics.IncrementSweepTotal(strings.ToLower(final.String()))
	metrics.SetActiveWorkers(0)

	logging.InfoSweep("Sweep finished", s.ID.String(),
		"state", final.String(),
		"scanned", progress.Scanned,
		"open", progress.Open,
		"found", progress.Found,
		"elapsed", elapsed)

	s.agg.closeSubscribers()
	close(s.done)
}
