// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package ids

import "testing"

func TestCompactor_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	c := New(4)
	inputs := []int64{1_000_000_007, -5, 42, -5, 1_000_000_007, 0}
	want := []int{0, 1, 2, 1, 0, 3}

	for i, ext := range inputs {
		if got := c.Compact(ext); got != want[i] {
			t.Errorf("Compact(%d) = %d, want %d", ext, got, want[i])
		}
	}

	if c.Count() != 4 {
		t.Errorf("Count() = %d, want 4", c.Count())
	}
}

func TestCompactor_Lookup(t *testing.T) {
	t.Parallel()

	c := New(0)
	c.Compact(10)
	c.Compact(11)

	tests := []struct {
		name string
		ext  int64
		want int
	}{
		{name: "first", ext: 10, want: 0},
		{name: "second", ext: 11, want: 1},
		{name: "unknown", ext: 12, want: NotFound},
		{name: "negative unknown", ext: -10, want: NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Lookup(tt.ext); got != tt.want {
				t.Errorf("Lookup(%d) = %d, want %d", tt.ext, got, tt.want)
			}
		})
	}

	if c.Count() != 2 {
		t.Errorf("Lookup must not assign: Count() = %d, want 2", c.Count())
	}
}

func TestCompactor_External(t *testing.T) {
	t.Parallel()

	c := New(2)
	c.Compact(99)
	c.Compact(77)

	if ext, ok := c.External(1); !ok || ext != 77 {
		t.Errorf("External(1) = (%d, %v), want (77, true)", ext, ok)
	}
	if _, ok := c.External(2); ok {
		t.Error("External(2) should report false for out-of-range index")
	}
	if _, ok := c.External(-1); ok {
		t.Error("External(-1) should report false")
	}
}

func TestNew_NegativeCapacity(t *testing.T) {
	t.Parallel()

	c := New(-3)
	if c.Compact(1) != 0 {
		t.Error("expected first index 0")
	}
}
