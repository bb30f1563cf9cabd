// Package diff compares mdsite output with a CommonMark reference rendering.
package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/yuin/goldmark"

	"github.com/gerunddev/mdsite/convert"
)

const (
	referenceName = "commonmark"
	outputName    = "mdsite"
)

// Comparison holds both renderings of one document, one block per line, and their unified diff
type Comparison struct {
	Reference string
	Output    string
	Diff      string
}

// Identical reports whether both renderings match line for line
func (c *Comparison) Identical() bool {
	return c.Diff == ""
}

// Compare renders markdown with the converter and with goldmark and diffs the results.
// The <div> wrapper is dropped so both sides list the same top-level blocks.
func Compare(name, markdown string, converter *convert.Converter) (*Comparison, error) {
	root, err := converter.Convert(markdown)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", name, err)
	}

	var out strings.Builder
	for _, child := range root.Children {
		s, err := child.HTML()
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", name, err)
		}
		out.WriteString(s)
		out.WriteByte('\n')
	}

	var ref bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &ref); err != nil {
		return nil, fmt.Errorf("failed to render reference for %s: %w", name, err)
	}

	c := &Comparison{
		Reference: ref.String(),
		Output:    out.String(),
	}

	edits := myers.ComputeEdits(span.URIFromPath(name), c.Reference, c.Output)
	if len(edits) > 0 {
		c.Diff = fmt.Sprint(gotextdiff.ToUnified(referenceName, outputName, c.Reference, edits))
	}
	return c, nil
}

// Render formats the diff for a terminal. Falls back to the plain fenced diff
// when the terminal renderer is unavailable.
func (c *Comparison) Render() string {
	if c.Identical() {
		return ""
	}

	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", c.Diff)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown
	}

	return rendered
}
