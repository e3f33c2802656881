package output

import (
	"slices"
	"strings"

	"doq/internal/engine/docstring"
)

// TextRenderer returns the source with every docstring inserted below its
// signature.
type TextRenderer struct{}

func (TextRenderer) Render(lines []string, placements []docstring.Placement, indent int) (string, error) {
	out := slices.Clone(lines)

	// Insert bottom-up so earlier line numbers stay valid.
	for i := len(placements) - 1; i >= 0; i-- {
		p := placements[i]
		block := indentBlock(p.Text, p.StartColumn+indent)
		at := min(DetectInsertPoint(out, p.StartLine, p.EndLine), len(out))
		out = slices.Insert(out, max(at, 0), block)
	}
	return strings.Join(out, "\n"), nil
}
