package sequence

import (
	"testing"
	"unsafe"
)

func TestSequence_InitialValue(t *testing.T) {
	s := New()
	if got := s.Load(); got != Initial {
		t.Fatalf("New().Load() = %d, want %d", got, Initial)
	}
}

func TestSequence_StoreLoad(t *testing.T) {
	s := New()
	s.Store(42)
	if got := s.Load(); got != 42 {
		t.Fatalf("Load() = %d, want 42", got)
	}
}

func TestSequence_CompareAndSwap(t *testing.T) {
	s := New()
	if !s.CompareAndSwap(Initial, 0) {
		t.Fatal("CompareAndSwap(Initial, 0) = false, want true")
	}
	if s.CompareAndSwap(Initial, 1) {
		t.Fatal("CompareAndSwap(Initial, 1) = true after value moved, want false")
	}
	if got := s.Load(); got != 0 {
		t.Fatalf("Load() = %d, want 0", got)
	}
}

func TestSequence_Padding(t *testing.T) {
	if size := unsafe.Sizeof(Sequence{}); size != 64 {
		t.Fatalf("Sequence occupies %d bytes, want one 64-byte cache line", size)
	}
}

func TestMinimum(t *testing.T) {
	mk := func(vals ...int64) []View {
		views := make([]View, len(vals))
		for i, v := range vals {
			s := New()
			s.Store(v)
			views[i] = s
		}
		return views
	}
	tests := []struct {
		name string
		vals []int64
		want int64
	}{
		{name: "single", vals: []int64{7}, want: 7},
		{name: "minimum first", vals: []int64{1, 5, 9}, want: 1},
		{name: "minimum middle", vals: []int64{5, 1, 9}, want: 1},
		{name: "minimum last", vals: []int64{9, 5, 1}, want: 1},
		{name: "negative values", vals: []int64{Initial, 3}, want: Initial},
		{name: "equal values", vals: []int64{4, 4, 4}, want: 4},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Minimum(mk(test.vals...)); got != test.want {
				t.Fatalf("Minimum(%v) = %d, want %d", test.vals, got, test.want)
			}
		})
	}
}
