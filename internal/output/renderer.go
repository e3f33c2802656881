// # internal/output/renderer.go
package output

import (
	"strings"

	"doq/internal/core/errors"
	"doq/internal/engine/docstring"
)

// Output styles.
const (
	StyleString = "string"
	StyleJSON   = "json"
	StyleYAML   = "yaml"
)

var Styles = []string{StyleString, StyleJSON, StyleYAML}

// Renderer turns a file's lines and its placements into the final output.
type Renderer interface {
	Render(lines []string, placements []docstring.Placement, indent int) (string, error)
}

func NewRenderer(style string) (Renderer, error) {
	switch style {
	case StyleString, "":
		return TextRenderer{}, nil
	case StyleJSON:
		return JSONRenderer{}, nil
	case StyleYAML:
		return YAMLRenderer{}, nil
	default:
		return nil, errors.New(errors.CodeValidationError, "unknown output style: "+style)
	}
}

// indentBlock prefixes every non-empty line of text with width spaces.
func indentBlock(text string, width int) string {
	pad := strings.Repeat(" ", max(width, 0))
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
