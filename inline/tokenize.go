package inline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrUnclosedDelimiter is returned when a bold, italic or code marker has no closing marker
	ErrUnclosedDelimiter = errors.New("unclosed delimiter")
	// ErrMalformedImageOrLink is returned when an extracted image or link cannot be found again in its text
	ErrMalformedImageOrLink = errors.New("malformed image or link")
)

// Delimiters in the order they are split
const (
	BoldDelimiter   = "**"
	ItalicDelimiter = "*"
	CodeDelimiter   = "`"
)

var (
	// ![alt](url), no nested brackets or parens
	imagePattern = regexp.MustCompile(`!\[([^\[\]]*)\]\(([^\(\)]*)\)`)
	// [text](url); a match preceded by '!' is an image and is dropped in ExtractLinks
	linkPattern = regexp.MustCompile(`\[([^\[\]]*)\]\(([^\(\)]*)\)`)
)

// Tokenize splits text into spans: images, then links, then bold, italic and code delimiters.
// Each pass only touches spans that are still plain Text.
func Tokenize(text string) ([]Span, error) {
	spans := []Span{NewSpan(text, Text)}

	var err error
	if spans, err = SplitImages(spans); err != nil {
		return nil, err
	}
	if spans, err = SplitLinks(spans); err != nil {
		return nil, err
	}
	if spans, err = SplitDelimiter(spans, BoldDelimiter, Bold); err != nil {
		return nil, err
	}
	if spans, err = SplitDelimiter(spans, ItalicDelimiter, Italic); err != nil {
		return nil, err
	}
	if spans, err = SplitDelimiter(spans, CodeDelimiter, Code); err != nil {
		return nil, err
	}
	return spans, nil
}

// ExtractImages returns every ![alt](url) in text, left to right
func ExtractImages(text string) []Match {
	var matches []Match
	for _, m := range imagePattern.FindAllStringSubmatch(text, -1) {
		matches = append(matches, Match{Text: m[1], URL: m[2], Raw: m[0]})
	}
	return matches
}

// ExtractLinks returns every [text](url) in text that is not an image, left to right
func ExtractLinks(text string) []Match {
	var matches []Match
	for _, loc := range linkPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > 0 && text[loc[0]-1] == '!' {
			continue
		}
		matches = append(matches, Match{
			Text: text[loc[2]:loc[3]],
			URL:  text[loc[4]:loc[5]],
			Raw:  text[loc[0]:loc[1]],
		})
	}
	return matches
}

// SplitImages carves image spans out of every Text span
func SplitImages(spans []Span) ([]Span, error) {
	return splitMatches(spans, Image, ExtractImages)
}

// SplitLinks carves link spans out of every Text span
func SplitLinks(spans []Span) ([]Span, error) {
	return splitMatches(spans, Link, ExtractLinks)
}

func splitMatches(spans []Span, kind Kind, extract func(string) []Match) ([]Span, error) {
	out := make([]Span, 0, len(spans))
	for _, span := range spans {
		if span.Kind != Text {
			out = append(out, span)
			continue
		}

		matches := extract(span.Text)
		if len(matches) == 0 {
			out = append(out, span)
			continue
		}

		remaining := span.Text
		for _, m := range matches {
			before, after, found := strings.Cut(remaining, m.Raw)
			if !found {
				return nil, fmt.Errorf("%w: %s %q not found in %q", ErrMalformedImageOrLink, kind, m.Raw, remaining)
			}
			if strings.TrimSpace(before) != "" {
				out = append(out, NewSpan(before, Text))
			}
			out = append(out, Span{Kind: kind, Text: m.Text, URL: m.URL})
			remaining = after
		}
		if strings.TrimSpace(remaining) != "" {
			out = append(out, NewSpan(remaining, Text))
		}
	}
	return out, nil
}

// SplitDelimiter splits every Text span on delimiter. Pieces alternate between Text and kind,
// starting with Text. Empty Text pieces are dropped, empty delimited pieces are kept.
func SplitDelimiter(spans []Span, delimiter string, kind Kind) ([]Span, error) {
	out := make([]Span, 0, len(spans))
	for _, span := range spans {
		if span.Kind != Text {
			out = append(out, span)
			continue
		}

		pieces := strings.Split(span.Text, delimiter)
		if len(pieces) == 1 {
			out = append(out, span)
			continue
		}
		if len(pieces)%2 == 0 {
			return nil, fmt.Errorf("%w: %q in %q", ErrUnclosedDelimiter, delimiter, span.Text)
		}

		for i, piece := range pieces {
			if i%2 == 1 {
				out = append(out, NewSpan(piece, kind))
			} else if piece != "" {
				out = append(out, NewSpan(piece, Text))
			}
		}
	}
	return out, nil
}
