package util

import "strings"

// SplitLines splits file content into lines without terminators. A final
// newline does not produce an extra empty line and CRLF reads as LF.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

// SliceBounds converts a 1-indexed inclusive line range into slice bounds
// over n lines. end 0 means through the last line; out of range values
// clamp.
func SliceBounds(n, start, end int) (int, int) {
	lo := start - 1
	if lo < 0 {
		lo = 0
	}
	if lo > n {
		lo = n
	}
	hi := end
	if hi == 0 || hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Dedent strips the indentation common to every non-blank line and
// returns it as a byte width.
func Dedent(lines []string) ([]string, int) {
	width := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if width < 0 || n < width {
			width = n
		}
	}
	if width <= 0 {
		return lines, 0
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) < width {
			out[i] = strings.TrimLeft(line, " \t")
			continue
		}
		out[i] = line[width:]
	}
	return out, width
}
