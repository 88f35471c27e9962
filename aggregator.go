package modelscan

import "sync"

// aggregator is the one piece of shared mutable state in a run: the
// capability index plus the failure set. Every mutation is a single
// insert under the mutex; workers never hold the lock across I/O.
type aggregator struct {
	mu     sync.Mutex
	index  map[string]map[HostKey]struct{}
	failed map[HostKey]struct{}
}

func newAggregator() *aggregator {
	return &aggregator{
		index:  make(map[string]map[HostKey]struct{}),
		failed: make(map[HostKey]struct{}),
	}
}

// addCapability records that a host validated a capability. Re-adding
// the same pair is a no-op, so re-validation can never inflate the
// index.
func (a *aggregator) addCapability(host HostKey, capability string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	hosts, ok := a.index[capability]
	if !ok {
		hosts = make(map[HostKey]struct{})
		a.index[capability] = hosts
	}
	hosts[host] = struct{}{}
}

// addFailure records a host whose probe yielded zero capabilities.
func (a *aggregator) addFailure(host HostKey) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failed[host] = struct{}{}
}

// capabilities reports the number of distinct capability names seen so
// far. Cheap enough for the monitor to poll.
func (a *aggregator) capabilities() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.index)
}

// snapshot copies the current state into an immutable, sorted view.
// The copy happens under the lock but touches no I/O, so workers stall
// for a bounded instant at most.
func (a *aggregator) snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	index := make(map[string][]HostKey, len(a.index))
	for capability, set := range a.index {
		hosts := make([]HostKey, 0, len(set))
		for host := range set {
			hosts = append(hosts, host)
		}
		sortHosts(hosts)
		index[capability] = hosts
	}

	failed := make([]HostKey, 0, len(a.failed))
	for host := range a.failed {
		failed = append(failed, host)
	}
	sortHosts(failed)

	return Snapshot{Index: index, Failed: failed}
}
