// Package convert turns markdown documents into HTML.
//
// A document is split into blocks on blank lines, every block is classified
// (paragraph, heading, code, quote, unordered or ordered list) and compiled into
// an htmlnode subtree. Inline text inside blocks goes through the inline tokenizer.
// All subtrees are collected under a single <div>.
//
// Text is emitted verbatim unless Options.EscapeText is set, so a document with a
// literal '<' or '&' in prose produces unescaped HTML by default.
package convert

import (
	"github.com/gerunddev/mdsite/block"
	"github.com/gerunddev/mdsite/htmlnode"
	"github.com/gerunddev/mdsite/inline"
)

var defaultConverter = NewConverter(Options{})

// MarkdownToHTML converts a markdown document to an HTML string.
// On error no partial output is returned.
func MarkdownToHTML(document string) (string, error) {
	return defaultConverter.HTML(document)
}

// Convert converts a markdown document to a node tree rooted at a <div>
func Convert(document string) (*htmlnode.Container, error) {
	return defaultConverter.Convert(document)
}

// Compile builds the node subtree for a single block
func Compile(b string, typ block.Type) (htmlnode.Node, error) {
	return defaultConverter.Compile(b, typ)
}

// TokenizeInline splits text into inline spans
func TokenizeInline(text string) ([]inline.Span, error) {
	return inline.Tokenize(text)
}

// SegmentBlocks splits a document into blocks
func SegmentBlocks(document string) []string {
	return block.Segment(document)
}

// ClassifyBlock returns the structural type of a block
func ClassifyBlock(b string) block.Type {
	return block.Classify(b)
}
