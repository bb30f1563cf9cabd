package inline

import (
	"errors"
	"fmt"
	"html"

	"github.com/gerunddev/mdsite/htmlnode"
)

// ErrInvalidLinkOrImageSpan is returned for a link without url or an image without url or alt text
var ErrInvalidLinkOrImageSpan = errors.New("invalid link or image span")

// ToNode converts a span to a leaf node
func ToNode(s Span) (htmlnode.Node, error) {
	return toNode(s, false)
}

// ToNodes tokenizes text and converts every span to a node.
// When escape is set, span text is HTML-escaped; attribute values never are.
func ToNodes(text string, escape bool) ([]htmlnode.Node, error) {
	spans, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	nodes := make([]htmlnode.Node, 0, len(spans))
	for _, s := range spans {
		n, err := toNode(s, escape)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func toNode(s Span, escape bool) (htmlnode.Node, error) {
	value := s.Text
	if escape {
		value = html.EscapeString(value)
	}

	switch s.Kind {
	case Text:
		return htmlnode.Text(value), nil
	case Bold:
		return htmlnode.NewLeaf("b", value), nil
	case Italic:
		return htmlnode.NewLeaf("i", value), nil
	case Code:
		return htmlnode.NewLeaf("code", value), nil
	case Link:
		if s.URL == "" {
			return nil, fmt.Errorf("%w: link %q has no url", ErrInvalidLinkOrImageSpan, s.Text)
		}
		return htmlnode.NewLeaf("a", value, htmlnode.Attr{Key: "href", Value: s.URL}), nil
	case Image:
		if s.URL == "" {
			return nil, fmt.Errorf("%w: image %q has no url", ErrInvalidLinkOrImageSpan, s.Text)
		}
		if s.Text == "" {
			return nil, fmt.Errorf("%w: image %q has no alt text", ErrInvalidLinkOrImageSpan, s.URL)
		}
		return htmlnode.NewLeaf("img", "",
			htmlnode.Attr{Key: "src", Value: s.URL},
			htmlnode.Attr{Key: "alt", Value: s.Text}), nil
	default:
		return nil, fmt.Errorf("unknown span kind: %s", s.Kind)
	}
}
