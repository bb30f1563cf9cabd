package convert

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"github.com/gerunddev/mdsite/block"
	"github.com/gerunddev/mdsite/htmlnode"
	"github.com/gerunddev/mdsite/inline"
)

// Options controls how blocks are compiled
type Options struct {
	// EscapeText HTML-escapes text content. Off by default: text is emitted verbatim.
	EscapeText bool
}

// Converter turns markdown into an HTML node tree
type Converter struct {
	opts Options
}

// NewConverter creates a converter with the given options
func NewConverter(opts Options) *Converter {
	return &Converter{opts: opts}
}

// Convert segments the document, compiles every block and collects the results under a <div>
func (c *Converter) Convert(document string) (*htmlnode.Container, error) {
	blocks := block.Segment(document)
	root := htmlnode.NewContainer("div", make([]htmlnode.Node, 0, len(blocks)))

	for i, b := range blocks {
		typ := block.Classify(b)
		node, err := c.Compile(b, typ)
		if err != nil {
			return nil, fmt.Errorf("block %d (%s): %w", i+1, typ, err)
		}
		root.Append(node)
	}

	return root, nil
}

// HTML converts the document and serializes the tree
func (c *Converter) HTML(document string) (string, error) {
	root, err := c.Convert(document)
	if err != nil {
		return "", err
	}
	return root.HTML()
}

// Compile builds the node subtree for one block of the given type.
//
// Two rules differ from a plain strip-the-markers reading:
//   - a word after an opening ``` fence becomes class="language-<word>" on the
//     <code> element instead of staying in the code content;
//   - unordered list items lose exactly their two-character marker ("- ", "* ",
//     "+ "), so "* *it*" keeps its italic delimiters.
func (c *Converter) Compile(b string, typ block.Type) (htmlnode.Node, error) {
	b = strings.TrimSpace(b)

	switch typ {
	case block.Heading:
		return c.heading(b)
	case block.Code:
		return c.code(b)
	case block.Quote:
		return c.quote(b)
	case block.UnorderedList:
		return c.list("ul", b, unorderedItem)
	case block.OrderedList:
		return c.list("ol", b, orderedItem)
	case block.Paragraph:
		return c.wrap("p", strings.ReplaceAll(b, "\n", " "))
	default:
		return nil, fmt.Errorf("unknown block type: %s", typ)
	}
}

// wrap tokenizes text and puts the resulting nodes inside a tag
func (c *Converter) wrap(tag, text string) (htmlnode.Node, error) {
	children, err := inline.ToNodes(text, c.opts.EscapeText)
	if err != nil {
		return nil, err
	}
	return htmlnode.NewContainer(tag, children), nil
}

func (c *Converter) heading(b string) (htmlnode.Node, error) {
	level := len(b) - len(strings.TrimLeft(b, "#"))
	text := strings.TrimRightFunc(strings.TrimLeft(b, "# \t"), unicode.IsSpace)

	tag := "p"
	if level >= 1 && level <= 6 {
		tag = fmt.Sprintf("h%d", level)
	}
	return c.wrap(tag, text)
}

// code keeps the fenced content verbatim. A word after the opening fence becomes the
// language class of the <code> element.
func (c *Converter) code(b string) (htmlnode.Node, error) {
	open, body, found := strings.Cut(b, "\n")
	if !found || !strings.HasPrefix(open, block.Fence) || len(body) < len(block.Fence) {
		return nil, fmt.Errorf("code block must open and close with %s", block.Fence)
	}

	content := body[:len(body)-len(block.Fence)]
	if c.opts.EscapeText {
		content = html.EscapeString(content)
	}

	code := htmlnode.NewLeaf("code", content)
	if lang := strings.Fields(strings.TrimPrefix(open, block.Fence)); len(lang) > 0 {
		code.Attrs.Set("class", "language-"+lang[0])
	}
	return htmlnode.NewContainer("pre", []htmlnode.Node{code}), nil
}

func (c *Converter) quote(b string) (htmlnode.Node, error) {
	lines := strings.Split(b, "\n")
	for i, line := range lines {
		line = strings.TrimPrefix(strings.TrimSpace(line), ">")
		lines[i] = strings.TrimPrefix(line, " ")
	}
	return c.wrap("blockquote", strings.Join(lines, "\n"))
}

func (c *Converter) list(tag, b string, item func(string) string) (htmlnode.Node, error) {
	lines := block.NonEmptyLines(b)
	items := make([]htmlnode.Node, 0, len(lines))
	for _, line := range lines {
		li, err := c.wrap("li", item(line))
		if err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return htmlnode.NewContainer(tag, items), nil
}

// unorderedItem strips the two-character "- ", "* " or "+ " marker
func unorderedItem(line string) string {
	for _, marker := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):])
		}
	}
	return strings.TrimSpace(line)
}

// orderedItem strips the "N. " prefix
func orderedItem(line string) string {
	if _, text, found := strings.Cut(line, ". "); found {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(line)
}
