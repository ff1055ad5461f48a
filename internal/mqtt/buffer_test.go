package mqtt

import "testing"

func TestPendingEmptyDrain(t *testing.T) {
	p := newPendingEvents(8)
	if got := p.drainAll(); got != nil {
		t.Errorf("expected nil from empty drain, got %d items", len(got))
	}
}

func TestPendingPushAndDrain(t *testing.T) {
	p := newPendingEvents(8)
	names := []string{"STARTUP", "SHUTDOWN", "STARTUP"}
	for _, name := range names {
		p.push(SystemEvent{Event: name})
	}

	if p.len() != 3 {
		t.Fatalf("len: got %d, want 3", p.len())
	}

	got := p.drainAll()
	if len(got) != len(names) {
		t.Fatalf("drained %d items, want %d", len(got), len(names))
	}
	for i, name := range names {
		if got[i].Event != name {
			t.Errorf("item %d: got %q, want %q", i, got[i].Event, name)
		}
	}

	// Second drain should be empty
	if got := p.drainAll(); got != nil {
		t.Errorf("expected nil from second drain, got %d items", len(got))
	}
}

func TestPendingOverflowDropsOldest(t *testing.T) {
	capacity := 4
	p := newPendingEvents(capacity)
	for i := 0; i < capacity+2; i++ {
		p.push(SystemEvent{Event: "E", Reason: string(rune('a' + i))})
	}

	got := p.drainAll()
	if len(got) != capacity {
		t.Fatalf("drained %d items, want %d", len(got), capacity)
	}
	// Oldest two ('a', 'b') were dropped.
	for i := range got {
		want := string(rune('a' + i + 2))
		if got[i].Reason != want {
			t.Errorf("item %d: got %q, want %q", i, got[i].Reason, want)
		}
	}
}

func TestPendingReusableAfterDrain(t *testing.T) {
	p := newPendingEvents(2)
	p.push(SystemEvent{Event: "A"})
	p.push(SystemEvent{Event: "B"})
	p.push(SystemEvent{Event: "C"}) // overflow, drops A
	p.drainAll()

	p.push(SystemEvent{Event: "D"})
	got := p.drainAll()
	if len(got) != 1 || got[0].Event != "D" {
		t.Errorf("after reuse: got %+v", got)
	}
}
