package wayland

import (
	"sort"
	"sync"
	"testing"
)

func TestSerialNext(t *testing.T) {
	var s Serial

	if got := s.Next(); got != 0 {
		t.Errorf("first serial = %d, want 0", got)
	}
	if got := s.Next(); got != 1 {
		t.Errorf("second serial = %d, want 1", got)
	}
}

func TestSerialConcurrentUniqueness(t *testing.T) {
	const (
		workers = 16
		perWork = 1000
	)

	var s Serial
	results := make([][]uint32, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			vals := make([]uint32, 0, perWork)
			for i := 0; i < perWork; i++ {
				vals = append(vals, s.Next())
			}
			results[w] = vals
		}(w)
	}
	wg.Wait()

	seen := make(map[uint32]bool, workers*perWork)
	for w, vals := range results {
		for _, v := range vals {
			if seen[v] {
				t.Fatalf("serial %d minted twice", v)
			}
			seen[v] = true
		}
		// Values observed by a single caller must be strictly increasing.
		if !sort.SliceIsSorted(vals, func(i, j int) bool { return vals[i] < vals[j] }) {
			t.Errorf("worker %d observed non-increasing serials", w)
		}
	}
	if len(seen) != workers*perWork {
		t.Errorf("minted %d distinct serials, want %d", len(seen), workers*perWork)
	}
}
