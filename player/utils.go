package player

import "fmt"

// formatMillis renders a track position as minutes:seconds:millis,
// e.g. 3:07:250.
func formatMillis(ms uint32) string {
	return fmt.Sprintf("%d:%02d:%03d", ms/60000, (ms%60000)/1000, ms%1000)
}

// lower folds an ASCII command byte, both channels are case-insensitive.
func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// isTerm reports whether b closes a message.
func isTerm(b byte) bool {
	return b == '\n' || b == '\r' || b == MsgTerm
}
