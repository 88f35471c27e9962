package modelscan

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// State of a scan run.
type State uint32

const (
	StateIdle State = iota
	StateSeeding
	StateRunning
	StateDraining
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeeding:
		return "seeding"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

var ErrNoTargets = errors.New("no usable targets")

// Controller owns a run's lifecycle: it seeds the queue, starts the
// pool and the monitor, awaits drain or cancellation, and hands the
// final snapshot back. A Controller runs once.
type Controller struct {
	conf      Config
	prober    Prober
	validator Validator
	progress  ProgressFunc

	state atomic.Uint32
}

func NewController(conf Config) *Controller {
	client := newHTTPClient(conf.Workers)
	return &Controller{
		conf:      conf,
		prober:    newHTTPProber(client, conf),
		validator: newHTTPValidator(client, conf),
	}
}

// OnProgress registers the progress sink. Must be set before Run.
func (c *Controller) OnProgress(fn ProgressFunc) {
	c.progress = fn
}

func (c *Controller) State() State {
	return State(c.state.Load())
}

// setState only ever advances: a run's lifecycle is monotonic, so a
// late transition signal can never move the controller backwards.
func (c *Controller) setState(s State) {
	for {
		cur := c.state.Load()
		if uint32(s) <= cur {
			return
		}
		if c.state.CompareAndSwap(cur, uint32(s)) {
			log.Debug().Stringer("state", s).Msg("controller state")
			return
		}
	}
}

// Run executes a full scan over the raw target list. Cancelling the
// context is a controlled shutdown, not an error: workers finish their
// in-flight host, and the report carries everything aggregated so far.
func (c *Controller) Run(ctx context.Context, targets []string) (*Report, error) {
	c.setState(StateSeeding)
	keys, dropped := NormalizeTargets(targets)
	if len(keys) == 0 {
		c.setState(StateFinished)
		return nil, errors.Wrapf(ErrNoTargets, "%d raw targets, %d dropped", len(targets), dropped)
	}

	queue := newWorkQueue(keys)
	agg := newAggregator()
	pool := &workerPool{
		size:      c.conf.Workers,
		queue:     queue,
		prober:    c.prober,
		validator: c.validator,
		agg:       agg,
	}
	monitor := &progressMonitor{
		queue:    queue,
		agg:      agg,
		interval: c.conf.ProgressInterval,
		emit:     c.progress,
	}

	log.Info().Int("targets", len(targets)).Int("hosts", len(keys)).
		Int("dropped", dropped).Int("workers", pool.size).Msg("scan started")
	c.setState(StateRunning)

	// The monitor outlives cancellation of the run context so a
	// cancelled run still reports progress while workers drain.
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		monitor.run(monitorCtx)
	}()

	// Flip to draining as soon as either drain condition shows up;
	// the pool join below is the actual wait.
	go func() {
		select {
		case <-ctx.Done():
		case <-monitorCtx.Done():
			return
		}
		c.setState(StateDraining)
	}()

	pool.run(ctx)
	c.setState(StateDraining)

	stopMonitor()
	<-monitorDone

	report := &Report{
		Snapshot:  agg.snapshot(),
		Scanned:   queue.scanned(),
		Total:     queue.total,
		Dropped:   dropped,
		// A late cancellation signal does not downgrade a run whose
		// queue fully drained
		Cancelled: ctx.Err() != nil && queue.scanned() < queue.total,
	}
	c.setState(StateFinished)

	log.Info().Int("scanned", report.Scanned).Int("total", report.Total).
		Int("capabilities", len(report.Index)).Int("failed", len(report.Failed)).
		Bool("cancelled", report.Cancelled).Msg("scan finished")
	return report, nil
}
