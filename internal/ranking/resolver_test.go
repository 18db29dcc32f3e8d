package ranking

import (
	"errors"
	"sort"
	"testing"
)

// speedComparator ranks indices by a fixed speed table (lower = faster) and
// counts invocations.
func speedComparator(speeds []int, calls *int) CompareFunc {
	return func(indices []int) ([]int, error) {
		*calls++
		ordered := make([]int, len(indices))
		copy(ordered, indices)
		sort.SliceStable(ordered, func(i, j int) bool {
			return speeds[ordered[i]] < speeds[ordered[j]]
		})
		return ordered, nil
	}
}

func TestResolve_GroupSizeTooSmall(t *testing.T) {
	for _, n := range []int{0, 1, 5, 100} {
		if _, err := Resolve(n, 1, nil); err != ErrGroupTooSmall {
			t.Errorf("n=%d: expected ErrGroupTooSmall, got %v", n, err)
		}
		if _, err := Resolve(n, 0, nil); err != ErrGroupTooSmall {
			t.Errorf("n=%d groupSize=0: expected ErrGroupTooSmall, got %v", n, err)
		}
	}
}

func TestResolve_ZeroItems(t *testing.T) {
	calls := 0
	got, err := Resolve(0, 3, speedComparator(nil, &calls))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty ranking, got %v", got)
	}
	if calls != 0 {
		t.Errorf("compare should never be called for n=0, got %d calls", calls)
	}
}

func TestResolve_SingleRace(t *testing.T) {
	speeds := []int{3, 1, 2}
	calls := 0
	got, err := Resolve(3, 5, speedComparator(speeds, &calls))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 2, 0}
	if !equalInts(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 compare call, got %d", calls)
	}
}

func TestResolve_SevenItemsGroupsOfThree(t *testing.T) {
	speeds := []int{5, 7, 3, 1, 6, 2, 4}
	calls := 0
	got, err := Resolve(7, 3, speedComparator(speeds, &calls))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("expected 7 items, got %d", len(got))
	}
	if got[0] != 3 {
		t.Errorf("fastest should be index 3 (speed 1), got %d", got[0])
	}
	if got[6] != 1 {
		t.Errorf("slowest should be index 1 (speed 7), got %d", got[6])
	}
	assertPermutation(t, got, 7)
}

func TestResolve_TenItemsGroupsOfFour(t *testing.T) {
	speeds := []int{8, 5, 2, 10, 6, 1, 7, 3, 9, 4}
	calls := 0
	got, err := Resolve(10, 4, speedComparator(speeds, &calls))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{5, 2, 7, 9, 1, 4, 6, 0, 8, 3}
	if !equalInts(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestResolve_CompareErrorPropagates(t *testing.T) {
	errTrackClosed := errors.New("track closed")
	speeds := []int{5, 7, 3, 1, 6, 2, 4}

	// For n=7 groupSize=3 the race order is: three initial group races,
	// the winners race, then merge races. Failing on a specific call
	// exercises each propagation site.
	cases := []struct {
		name      string
		n         int
		groupSize int
		failCall  int
	}{
		{"single race", 3, 5, 1},
		{"initial group race", 7, 3, 2},
		{"winners race", 7, 3, 4},
		{"merge race", 7, 3, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			inner := speedComparator(speeds, &calls)
			failing := func(indices []int) ([]int, error) {
				if calls+1 == tc.failCall {
					calls++
					return nil, errTrackClosed
				}
				return inner(indices)
			}

			got, err := Resolve(tc.n, tc.groupSize, failing)
			if err != errTrackClosed {
				t.Fatalf("expected the comparator error unwrapped, got %v", err)
			}
			if got != nil {
				t.Errorf("expected nil ranking on error, got %v", got)
			}
			if calls != tc.failCall {
				t.Errorf("resolver kept racing after the error: %d calls, want %d", calls, tc.failCall)
			}
		})
	}
}

func TestResolve_PermutationProperty(t *testing.T) {
	for _, tc := range []struct{ n, groupSize int }{
		{1, 2}, {2, 2}, {5, 2}, {9, 3}, {10, 4}, {25, 5}, {100, 7},
	} {
		speeds := make([]int, tc.n)
		for i := range speeds {
			// Deterministic scramble with distinct speeds.
			speeds[i] = (i*37 + 11) % (tc.n * 41)
		}
		calls := 0
		got, err := Resolve(tc.n, tc.groupSize, speedComparator(speeds, &calls))
		if err != nil {
			t.Fatalf("n=%d m=%d: unexpected error: %v", tc.n, tc.groupSize, err)
		}
		assertPermutation(t, got, tc.n)
	}
}

func TestResolve_LargeInput(t *testing.T) {
	const n, groupSize = 1000, 10
	speeds := make([]int, n)
	for i := range speeds {
		speeds[i] = (i * 7919) % 104729
	}
	calls := 0
	got, err := Resolve(n, groupSize, speedComparator(speeds, &calls))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPermutation(t, got, n)

	// Soft sanity check: far fewer races than pairwise comparisons.
	pairwise := n * (n - 1) / 2
	if calls >= pairwise/10 {
		t.Errorf("expected sub-linear race count, got %d (pairwise baseline %d)", calls, pairwise)
	}
	for i := 1; i < n; i++ {
		if speeds[got[i-1]] > speeds[got[i]] {
			t.Fatalf("ranking out of order at position %d: %d before %d", i, got[i-1], got[i])
		}
	}
}

func assertPermutation(t *testing.T, got []int, n int) {
	t.Helper()
	if len(got) != n {
		t.Fatalf("expected %d items, got %d", n, len(got))
	}
	seen := make([]bool, n)
	for _, idx := range got {
		if idx < 0 || idx >= n {
			t.Fatalf("index %d out of range [0,%d)", idx, n)
		}
		if seen[idx] {
			t.Fatalf("index %d appears more than once", idx)
		}
		seen[idx] = true
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
