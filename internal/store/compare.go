package store

// PrefixCompare compares a and b over the first min(len(a), len(b)) bytes.
// A zero result does not imply equal length or content: "test" and "testing"
// tie. This is the one comparator shared by insertion, merge and lookup.
func PrefixCompare(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less orders a before b: by PrefixCompare, and on a tie the shorter text
// first. Equal texts are not Less in either direction.
func Less(a, b []byte) bool {
	if c := PrefixCompare(a, b); c != 0 {
		return c < 0
	}
	return len(a) < len(b)
}

// Matches reports whether a lookup for query hits text.
func Matches(text, query []byte) bool {
	return PrefixCompare(text, query) == 0
}
