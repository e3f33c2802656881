package output

import (
	"regexp"
	"strings"

	"doq/internal/shared/logging"
)

var signatureEnds = []*regexp.Regexp{
	regexp.MustCompile(`\):$`),
	regexp.MustCompile(`\):|\)\s*:`),
	// def foo(a) -> Tuple[
	//     int,
	// ]:
	regexp.MustCompile(`\]:|\]\s*:`),
	regexp.MustCompile(`->(.*):`),
}

// DetectInsertPoint returns the 1-based line after which a docstring for the
// definition spanning start..end belongs, i.e. the last line of its
// signature. lines are 0-indexed.
func DetectInsertPoint(lines []string, start, end int) int {
	if start < 1 || start > len(lines) {
		return start
	}

	first := lines[start-1]
	if strings.HasSuffix(first, ":") || strings.Contains(first, "):") {
		return start
	}

	end = min(end, len(lines))
	for i := start; i < end; i++ {
		for _, re := range signatureEnds {
			if re.MatchString(lines[i]) {
				return i + 1
			}
		}
	}

	logging.L().Debugw("signature end not found, inserting after first line",
		"start_line", start, "end_line", end)
	return start
}
