package block

import (
	"fmt"
	"regexp"
	"strings"
)

// Type is the structural type of a block
type Type int

const (
	Paragraph Type = iota
	Heading
	Code
	Quote
	UnorderedList
	OrderedList
)

func (t Type) String() string {
	switch t {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	case Code:
		return "code"
	case Quote:
		return "quote"
	case UnorderedList:
		return "unordered_list"
	case OrderedList:
		return "ordered_list"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Fence opens and closes a code block
const Fence = "```"

var headingPattern = regexp.MustCompile(`^#{1,6}\s`)

// Segment splits a document into trimmed blocks separated by one or more blank lines.
// A blank line contains only whitespace. Empty blocks are dropped.
func Segment(document string) []string {
	var (
		blocks  []string
		current []string
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		if b := strings.TrimSpace(strings.Join(current, "\n")); b != "" {
			blocks = append(blocks, b)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(document, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimRight(line, "\r"))
	}
	flush()

	return blocks
}

// Classify returns the type of a block. Rules are checked in order:
// code fence, heading, quote, unordered list, ordered list, paragraph.
func Classify(block string) Type {
	block = strings.TrimSpace(block)
	lines := strings.Split(block, "\n")

	if len(lines) >= 2 &&
		strings.HasPrefix(strings.TrimSpace(lines[0]), Fence) &&
		strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), Fence) {
		return Code
	}

	nonEmpty := NonEmptyLines(block)
	if len(nonEmpty) == 0 {
		return Paragraph
	}

	if headingPattern.MatchString(nonEmpty[0]) {
		return Heading
	}

	if allHavePrefix(nonEmpty, ">") {
		return Quote
	}

	if allHavePrefix(nonEmpty, "- ", "* ", "+ ") {
		return UnorderedList
	}

	if isOrderedList(nonEmpty) {
		return OrderedList
	}

	return Paragraph
}

// NonEmptyLines returns the trimmed lines of block that are not blank
func NonEmptyLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func allHavePrefix(lines []string, prefixes ...string) bool {
	for _, line := range lines {
		if !hasAnyPrefix(line, prefixes) {
			return false
		}
	}
	return true
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// isOrderedList requires items numbered 1, 2, 3, ... with no gaps
func isOrderedList(lines []string) bool {
	for i, line := range lines {
		if !strings.HasPrefix(line, fmt.Sprintf("%d. ", i+1)) {
			return false
		}
	}
	return true
}
