package modelscan

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestAggregatorDedupsPairs(t *testing.T) {
	agg := newAggregator()
	host := HostKey{Hostname: "1.1.1.1", Port: DefaultPort}

	// Re-validation of the same pair must never inflate the index
	for i := 0; i < 5; i++ {
		agg.addCapability(host, "llama3")
	}

	snap := agg.snapshot()
	if got := snap.Index["llama3"]; len(got) != 1 || got[0] != host {
		t.Fatalf("expected single host entry, got %v", got)
	}
}

func TestAggregatorConcurrentMutation(t *testing.T) {
	agg := newAggregator()

	var wg sync.WaitGroup
	for w := 0; w < 32; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 64; i++ {
				host := HostKey{Hostname: fmt.Sprintf("10.0.0.%d", i), Port: DefaultPort}
				agg.addCapability(host, "shared")
				agg.addFailure(HostKey{Hostname: fmt.Sprintf("10.1.0.%d", i), Port: DefaultPort})
			}
		}(w)
	}
	wg.Wait()

	snap := agg.snapshot()
	if len(snap.Index["shared"]) != 64 {
		t.Errorf("expected 64 hosts, got %d", len(snap.Index["shared"]))
	}
	if len(snap.Failed) != 64 {
		t.Errorf("expected 64 failed hosts, got %d", len(snap.Failed))
	}
}

func TestSnapshotIsSortedAndDetached(t *testing.T) {
	agg := newAggregator()
	agg.addCapability(HostKey{Hostname: "b.example", Port: 2}, "m")
	agg.addCapability(HostKey{Hostname: "a.example", Port: 9}, "m")
	agg.addCapability(HostKey{Hostname: "a.example", Port: 1}, "m")

	snap := agg.snapshot()
	want := []HostKey{
		{Hostname: "a.example", Port: 1},
		{Hostname: "a.example", Port: 9},
		{Hostname: "b.example", Port: 2},
	}
	if !reflect.DeepEqual(snap.Index["m"], want) {
		t.Fatalf("expected %v, got %v", want, snap.Index["m"])
	}

	// mutations after the snapshot must not leak into it
	agg.addCapability(HostKey{Hostname: "c.example", Port: 3}, "m")
	if len(snap.Index["m"]) != 3 {
		t.Error("snapshot changed after later mutation")
	}
}

func TestSnapshotCapabilityNames(t *testing.T) {
	agg := newAggregator()
	host := HostKey{Hostname: "h", Port: 1}
	agg.addCapability(host, "zeta")
	agg.addCapability(host, "alpha")

	got := agg.snapshot().Capabilities()
	if !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Fatalf("expected sorted names, got %v", got)
	}
}
