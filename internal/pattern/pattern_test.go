package pattern

import "testing"

func TestIDOrdering(t *testing.T) {
	// Priority is bit position; the table order is part of the visual
	// protocol and must not change.
	order := []ID{Batt30, Batt20, Batt10, Advertising, Connected}
	for i, id := range order {
		if int(id) != i {
			t.Errorf("ID %s: got index %d, want %d", id, int(id), i)
		}
	}
	if Count != 5 {
		t.Errorf("Count: got %d, want 5", Count)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		id    ID
		ok    bool
		times uint8
	}{
		{Batt30, true, 3},
		{Batt20, true, 2},
		{Batt10, true, 1},
		{Advertising, true, 1},
		{Connected, true, 1},
		{None, false, 0},
		{ID(Count), false, 0},
		{ID(-5), false, 0},
	}

	for _, tt := range tests {
		p, ok := Lookup(tt.id)
		if ok != tt.ok {
			t.Errorf("Lookup(%s): ok=%v, want %v", tt.id, ok, tt.ok)
			continue
		}
		if ok && p.Times != tt.times {
			t.Errorf("Lookup(%s): Times=%d, want %d", tt.id, p.Times, tt.times)
		}
	}
}

func TestMaskSetClear(t *testing.T) {
	var m Mask

	m = m.Set(Batt20)
	m = m.Set(Advertising)
	if !m.Has(Batt20) || !m.Has(Advertising) {
		t.Fatalf("expected Batt20 and Advertising set, mask=%08b", m)
	}

	m = m.Clear(Batt20)
	if m.Has(Batt20) {
		t.Errorf("Batt20 still set after Clear, mask=%08b", m)
	}
	if !m.Has(Advertising) {
		t.Errorf("Advertising lost by unrelated Clear, mask=%08b", m)
	}

	// None is a no-op on both sides.
	before := m
	if got := m.Set(None); got != before {
		t.Errorf("Set(None) changed mask: %08b -> %08b", before, got)
	}
	if got := m.Clear(None); got != before {
		t.Errorf("Clear(None) changed mask: %08b -> %08b", before, got)
	}
}

func TestMaskClearThenSetSameID(t *testing.T) {
	// A swap with off == on must leave the bit set: clear happens first.
	var m Mask
	m = m.Set(Batt10)
	m = m.Clear(Batt10)
	m = m.Set(Batt10)
	if !m.Has(Batt10) {
		t.Errorf("clear-then-set of same ID should leave bit set, mask=%08b", m)
	}
}

func TestMaskHighest(t *testing.T) {
	tests := []struct {
		mask Mask
		want ID
	}{
		{0, None},
		{0b00001, Batt30},
		{0b01010, Advertising}, // index 3, not 1
		{0b00110, Batt10},
		{0b10000, Connected},
		{0b11111, Connected},
	}

	for _, tt := range tests {
		if got := tt.mask.Highest(); got != tt.want {
			t.Errorf("Mask(%05b).Highest(): got %s, want %s", tt.mask, got, tt.want)
		}
	}
}

func TestMaskEmpty(t *testing.T) {
	var m Mask
	if !m.Empty() {
		t.Error("zero mask should be empty")
	}
	m = m.Set(Connected)
	if m.Empty() {
		t.Error("mask with Connected set should not be empty")
	}
	m = m.Clear(Connected)
	if !m.Empty() {
		t.Error("mask should be empty after clearing the only bit")
	}
}
