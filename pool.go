package modelscan

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// workerPool drains the queue with a fixed number of workers, each
// running the probe-then-validate protocol for one host at a time.
type workerPool struct {
	size      int
	queue     *workQueue
	prober    Prober
	validator Validator
	agg       *aggregator
}

// run blocks until every worker has exited: either the queue drained
// or the context was cancelled and all in-flight hosts finished.
func (p *workerPool) run(ctx context.Context) {
	var g errgroup.Group
	for i := 0; i < p.size; i++ {
		g.Go(func() error {
			p.worker(ctx)
			return nil
		})
	}
	// workers report nothing fatal, the group is only a join point
	_ = g.Wait()
}

func (p *workerPool) worker(ctx context.Context) {
	// Cancellation is observed at the dequeue boundary only. A
	// claimed host runs its exchanges to completion, so calls below
	// the dequeue carry no cancellation.
	inflight := context.WithoutCancel(ctx)

	for {
		host, ok := p.queue.dequeue(ctx)
		if !ok {
			return
		}

		if p.queue.claim(host) {
			p.scanHost(inflight, host)
		}
		p.queue.ack()
	}
}

// scanHost runs the two-phase protocol and folds the completed record
// into the aggregator in one go. Nothing is published mid-host, so a
// snapshot can never observe a half-processed host.
func (p *workerPool) scanHost(ctx context.Context, host HostKey) {
	record := &ScanRecord{Host: host, Status: StatusProbing}

	advertised := p.prober.Probe(ctx, host)
	if len(advertised) == 0 {
		record.Status = StatusFailed
		p.agg.addFailure(host)
		return
	}

	record.Status = StatusValidating
	for _, capability := range dedupe(advertised) {
		if p.validator.Validate(ctx, host, capability) {
			record.Capabilities = append(record.Capabilities, capability)
		}
	}

	// A host that advertised capabilities but confirmed none lands in
	// neither the index nor the failure set.
	record.Status = StatusSucceeded
	for _, capability := range record.Capabilities {
		p.agg.addCapability(host, capability)
	}

	log.Debug().Stringer("host", host).
		Int("advertised", len(advertised)).
		Int("validated", len(record.Capabilities)).
		Msg("host scanned")
}
