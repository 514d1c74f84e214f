package storage

import "golang.org/x/text/cases"

// FoldName returns the index key for a last name: its Unicode case fold,
// which lowercases ASCII. The same folding is applied on insert, delete
// and query so keys always compare equal. Folding maps rune by rune, so
// the fold of a prefix is a prefix of the fold.
func FoldName(s string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Fold().String(s)
}

// prefixSuccessor returns the smallest string greater than every string
// that starts with p, by incrementing the last byte that is not 0xFF and
// dropping everything after it. ok is false when no such string exists
// (p is empty or all 0xFF), meaning the range has no upper bound.
func prefixSuccessor(p string) (succ string, ok bool) {
	b := []byte(p)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xFF {
			b[i]++
			return string(b[:i+1]), true
		}
	}
	return "", false
}
