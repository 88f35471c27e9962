package modelscan

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// progressMonitor samples queue and aggregator counters on a fixed
// interval and hands them to the progress sink. It reads, never
// writes: disabling it changes no other component's behavior.
type progressMonitor struct {
	queue    *workQueue
	agg      *aggregator
	interval time.Duration
	emit     ProgressFunc
}

func (m *progressMonitor) run(ctx context.Context) {
	if m.emit == nil {
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.observe()
		}
	}
}

func (m *progressMonitor) observe() {
	p := Progress{
		Scanned:      m.queue.scanned(),
		Total:        m.queue.total,
		Capabilities: m.agg.capabilities(),
	}
	log.Trace().Int("scanned", p.Scanned).Int("total", p.Total).
		Int("capabilities", p.Capabilities).Msg("progress")
	m.emit(p)
}
