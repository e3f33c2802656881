package parser

import (
	"regexp"
	"strings"
)

var (
	returnTypePattern = regexp.MustCompile(`\)(.*)->(.*):`)
	trailingColon     = regexp.MustCompile(`:$`)
)

// GetReturnType extracts the annotation between "->" and the trailing colon
// of a single signature line.
func GetReturnType(line string) (string, bool) {
	matched := returnTypePattern.FindString(line)
	if matched == "" {
		return "", false
	}
	rt := strings.TrimSpace(trailingColon.ReplaceAllString(matched[1:], ""))
	rt = strings.TrimSpace(strings.ReplaceAll(rt, "->", ""))
	if rt == "" {
		return "", false
	}
	return rt, true
}

// ParseReturnType scans the signature lines between startLine and endLine
// (inclusive, 1-based) of code for a return annotation.
func ParseReturnType(code string, startLine, endLine int) (string, bool) {
	lines := strings.Split(strings.TrimSpace(code), "\n")
	span := endLine - startLine
	if span <= 0 {
		return GetReturnType(lines[0])
	}

	limit := min(span+1, len(lines))
	for _, line := range lines[:limit] {
		if rt, ok := GetReturnType(line); ok {
			return rt, true
		}
	}
	return "", false
}
