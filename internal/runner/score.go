package runner

import "slices"

// Score reports whether the calls satisfy the expected tools.
// Unordered, every expected tool must appear. Ordered, expected must be a subsequence of calls.
func Score(expected, calls []string, ordered bool) bool {
	if ordered {
		return isSubsequence(expected, calls)
	}
	for _, tool := range expected {
		if !slices.Contains(calls, tool) {
			return false
		}
	}
	return true
}

func isSubsequence(expected, calls []string) bool {
	next := 0
	for _, call := range calls {
		if next == len(expected) {
			break
		}
		if call == expected[next] {
			next++
		}
	}
	return next == len(expected)
}
