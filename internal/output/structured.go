package output

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"doq/internal/core/errors"
	"doq/internal/engine/docstring"
)

// Record is one docstring in structured output. StartCol already includes
// the indent.
type Record struct {
	Docstring   string `json:"docstring" yaml:"docstring"`
	StartCol    int    `json:"start_col" yaml:"start_col"`
	StartLineno int    `json:"start_lineno" yaml:"start_lineno"`
	EndCol      int    `json:"end_col" yaml:"end_col"`
	EndLineno   int    `json:"end_lineno" yaml:"end_lineno"`
}

// Records converts placements into structured records in the given order.
func Records(placements []docstring.Placement, indent int) []Record {
	records := make([]Record, 0, len(placements))
	for _, p := range placements {
		col := p.StartColumn + indent
		records = append(records, Record{
			Docstring:   indentBlock(p.Text, col),
			StartCol:    col,
			StartLineno: p.StartLine,
			EndCol:      p.EndColumn,
			EndLineno:   p.EndLine,
		})
	}
	return records
}

type JSONRenderer struct{}

func (JSONRenderer) Render(_ []string, placements []docstring.Placement, indent int) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Records(placements, indent)); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "encode json")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

type YAMLRenderer struct{}

func (YAMLRenderer) Render(_ []string, placements []docstring.Placement, indent int) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Records(placements, indent)); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "encode yaml")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
