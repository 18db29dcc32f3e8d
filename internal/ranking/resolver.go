package ranking

import "errors"

// ErrGroupTooSmall is returned when the comparison group size makes a
// ranking underdetermined.
var ErrGroupTooSmall = errors.New("cannot rank when comparing fewer than 2 items at a time")

// CompareFunc races up to groupSize items and returns the same indices
// ordered fastest to slowest. It is the sole source of truth for relative
// order; the resolver only merges sequences the comparator produced.
type CompareFunc func(indices []int) ([]int, error)

// Resolve produces a full fastest-to-slowest ranking of n items using at
// most groupSize items per comparison. It runs each initial group once,
// then extracts winners through a k-way merge over the pre-ranked groups so
// no pair is compared whose order is already known. Comparisons are issued
// strictly sequentially. Errors from compare propagate unwrapped.
func Resolve(n, groupSize int, compare CompareFunc) ([]int, error) {
	if groupSize < 2 {
		return nil, ErrGroupTooSmall
	}
	if n == 0 {
		return []int{}, nil
	}
	if n <= groupSize {
		return compare(sequence(n))
	}

	// Initial races: contiguous groups of at most groupSize items.
	all := sequence(n)
	var groups [][]int
	for i := 0; i < n; i += groupSize {
		end := i + groupSize
		if end > n {
			end = n
		}
		ranked, err := compare(all[i:end])
		if err != nil {
			return nil, err
		}
		groups = append(groups, ranked)
	}

	// Position lookup for the merge phase.
	groupOf := make([]int, n)
	posOf := make([]int, n)
	for g, ranked := range groups {
		for pos, item := range ranked {
			groupOf[item] = g
			posOf[item] = pos
		}
	}

	winners := make([]int, len(groups))
	for g, ranked := range groups {
		winners[g] = ranked[0]
	}
	fastest, err := tournamentWinner(winners, groupSize, compare)
	if err != nil {
		return nil, err
	}

	final := make([]int, 0, n)
	final = append(final, fastest)
	ranked := make([]bool, n)
	ranked[fastest] = true

	// Seed candidates: the runner-up from the winning group, then every
	// other group's winner.
	var candidates []int
	if next, ok := nextInGroup(groups, groupOf, posOf, fastest); ok {
		candidates = append(candidates, next)
	}
	for g, w := range winners {
		if g != groupOf[fastest] {
			candidates = append(candidates, w)
		}
	}

	for len(candidates) > 0 && len(final) < n {
		var next int
		switch {
		case len(candidates) == 1:
			next = candidates[0]
		case len(candidates) <= groupSize:
			ordered, err := compare(candidates)
			if err != nil {
				return nil, err
			}
			next = ordered[0]
		default:
			next, err = tournamentWinner(candidates, groupSize, compare)
			if err != nil {
				return nil, err
			}
		}

		final = append(final, next)
		ranked[next] = true
		candidates = remove(candidates, next)
		if succ, ok := nextInGroup(groups, groupOf, posOf, next); ok {
			candidates = append(candidates, succ)
		}
	}

	// Completion path: if the candidate set ran dry early, fill from the
	// group rankings in original order.
	if len(final) < n {
		for _, groupRanking := range groups {
			for _, item := range groupRanking {
				if !ranked[item] {
					final = append(final, item)
					ranked[item] = true
					if len(final) == n {
						return final, nil
					}
				}
			}
		}
	}
	return final, nil
}

// tournamentWinner reduces more than groupSize candidates to a single
// fastest item by repeated rounds of group races over round winners.
func tournamentWinner(items []int, groupSize int, compare CompareFunc) (int, error) {
	for len(items) > 1 {
		if len(items) <= groupSize {
			ordered, err := compare(items)
			if err != nil {
				return 0, err
			}
			return ordered[0], nil
		}
		var winners []int
		for i := 0; i < len(items); i += groupSize {
			end := i + groupSize
			if end > len(items) {
				end = len(items)
			}
			heat := items[i:end]
			if len(heat) == 1 {
				winners = append(winners, heat[0])
				continue
			}
			ordered, err := compare(heat)
			if err != nil {
				return 0, err
			}
			winners = append(winners, ordered[0])
		}
		items = winners
	}
	return items[0], nil
}

func nextInGroup(groups [][]int, groupOf, posOf []int, item int) (int, bool) {
	g, pos := groupOf[item], posOf[item]
	if pos+1 < len(groups[g]) {
		return groups[g][pos+1], true
	}
	return 0, false
}

func remove(items []int, item int) []int {
	out := items[:0]
	for _, it := range items {
		if it != item {
			out = append(out, it)
		}
	}
	return out
}

func sequence(n int) []int {
	seq := make([]int, n)
	for i := range seq {
		seq[i] = i
	}
	return seq
}
