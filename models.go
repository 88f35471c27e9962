package modelscan

import (
	"fmt"
	"sort"
)

// Default port the inference service listens on.
const DefaultPort = 11434

// HostKey is the canonical identity of a target: hostname plus port.
// Every dedup and aggregation decision keys on this, never on the raw
// input spelling.
type HostKey struct {
	Hostname string
	Port     int
}

func (h HostKey) String() string {
	return fmt.Sprintf("%s:%d", h.Hostname, h.Port)
}

// less orders hosts by hostname, then port. Used for report output.
func (h HostKey) less(o HostKey) bool {
	if h.Hostname != o.Hostname {
		return h.Hostname < o.Hostname
	}
	return h.Port < o.Port
}

func sortHosts(hosts []HostKey) {
	sort.Slice(hosts, func(i, j int) bool { return hosts[i].less(hosts[j]) })
}

type ScanStatus uint8

const (
	StatusPending ScanStatus = iota
	StatusProbing
	StatusValidating
	StatusSucceeded
	StatusFailed
)

func (s ScanStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProbing:
		return "probing"
	case StatusValidating:
		return "validating"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// ScanRecord is the per-host working state. It is owned exclusively by
// the worker that claimed the host and is discarded once its outcome has
// been folded into the aggregator.
type ScanRecord struct {
	Host   HostKey
	Status ScanStatus
	// Validated capabilities, in advertisement order
	Capabilities []string
}

// Snapshot is an immutable view of the aggregated scan outcome: each
// capability mapped to the hosts that validated it, plus the set of
// hosts whose probe yielded nothing.
type Snapshot struct {
	// Capability name -> sorted contributing hosts
	Index map[string][]HostKey
	// Hosts with zero probed capabilities, sorted
	Failed []HostKey
}

// Capabilities returns the capability names in the index, sorted.
func (s Snapshot) Capabilities() []string {
	names := make([]string, 0, len(s.Index))
	for name := range s.Index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Report is what a finished or cancelled run hands back to the caller.
// A cancelled run still carries everything aggregated up to that point.
type Report struct {
	Snapshot

	// Hosts whose unit of work completed
	Scanned int
	// Distinct hosts seeded into the queue
	Total int
	// Raw targets dropped at parse time. These never reached the
	// network and are not scan failures.
	Dropped int
	// Whether the run was cut short by cancellation
	Cancelled bool
}

// Progress is the periodic observation emitted while a scan runs.
type Progress struct {
	Scanned      int
	Total        int
	Capabilities int
}

// ProgressFunc receives progress observations. Purely observational:
// implementations must not affect the scan.
type ProgressFunc func(Progress)
