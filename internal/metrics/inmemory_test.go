package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder(t *testing.T) {
	m := NewInMemory()

	m.IncRelayCall("translate", StatusSuccess)
	m.IncRelayCall("translate", StatusFailed)
	m.IncRelayCall("translate", StatusSuccess)
	m.ObserveUpstreamDuration("translate", 250*time.Millisecond)
	m.ObserveUpstreamDuration("translate", 750*time.Millisecond)
	m.IncAuthFailure("invalid_token")
	m.IncHistoryWrite(StatusSuccess)
	m.IncHistoryWrite(StatusFailed)
	m.IncHistoryWrite(StatusFailed)

	snap := m.Snapshot()

	if got := snap.RelayCalls[RelayKey{Endpoint: "translate", Status: StatusSuccess}]; got != 2 {
		t.Errorf("relay success = %d, want 2", got)
	}
	if got := snap.RelayCalls[RelayKey{Endpoint: "translate", Status: StatusFailed}]; got != 1 {
		t.Errorf("relay failed = %d, want 1", got)
	}
	if got := snap.UpstreamDurationCount["translate"]; got != 2 {
		t.Errorf("duration count = %d, want 2", got)
	}
	if got := snap.UpstreamDurationTotalNs["translate"]; got != int64(time.Second) {
		t.Errorf("duration total = %d, want %d", got, int64(time.Second))
	}
	if got := snap.AuthFailures["invalid_token"]; got != 1 {
		t.Errorf("auth failures = %d, want 1", got)
	}
	if snap.HistoryWrites != 1 || snap.HistoryWriteFailures != 2 {
		t.Errorf("history writes = %d/%d, want 1/2", snap.HistoryWrites, snap.HistoryWriteFailures)
	}
}

func TestInMemoryRecorder_SnapshotIsCopy(t *testing.T) {
	m := NewInMemory()
	m.IncAuthFailure("missing_header")

	snap := m.Snapshot()
	snap.AuthFailures["missing_header"] = 100

	if got := m.Snapshot().AuthFailures["missing_header"]; got != 1 {
		t.Errorf("recorder mutated through snapshot: %d", got)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	m := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncRelayCall("speaking_practice", StatusSuccess)
			m.IncHistoryWrite(StatusSuccess)
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if got := snap.RelayCalls[RelayKey{Endpoint: "speaking_practice", Status: StatusSuccess}]; got != 50 {
		t.Errorf("relay calls = %d, want 50", got)
	}
	if snap.HistoryWrites != 50 {
		t.Errorf("history writes = %d, want 50", snap.HistoryWrites)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoop()
	r.IncRelayCall("translate", StatusSuccess)
	r.ObserveUpstreamDuration("translate", time.Second)
	r.IncAuthFailure("missing_header")
	r.IncHistoryWrite(StatusFailed)
}
