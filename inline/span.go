package inline

import "fmt"

// Kind is the type of an inline span
type Kind int

const (
	Text Kind = iota
	Bold
	Italic
	Code
	Link
	Image
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Code:
		return "code"
	case Link:
		return "link"
	case Image:
		return "image"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Span is a typed run of inline text.
// URL is only set for Link and Image spans; for images Text holds the alt text.
type Span struct {
	Kind Kind
	Text string
	URL  string
}

// NewSpan creates a span without a URL
func NewSpan(text string, kind Kind) Span {
	return Span{Kind: kind, Text: text}
}

func (s Span) String() string {
	if s.Kind == Link || s.Kind == Image {
		return fmt.Sprintf("Span(%q, %s, %q)", s.Text, s.Kind, s.URL)
	}
	return fmt.Sprintf("Span(%q, %s)", s.Text, s.Kind)
}

// Match is an extracted image or link: its label, its url and the exact source text
type Match struct {
	Text string
	URL  string
	Raw  string
}
