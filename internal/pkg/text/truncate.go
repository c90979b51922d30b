package text

import "unicode/utf8"

// Truncate cuts s to max characters and appends "..." when it was longer.
// Counting is by rune so multi-byte text is never split mid-character.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
