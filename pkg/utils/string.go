package utils

// Truncate shortens s to at most maxLen runes followed by "...". Counting
// runes keeps multi-byte scripts such as Arabic intact.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
