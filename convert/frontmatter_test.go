package convert

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractFrontMatter(t *testing.T) {
	doc := `---
title: Hello World
date: "2024-05-01"
draft: true
tags:
  - go
  - markdown
author: boots
---
# Hello

Body text`

	fm, body, err := ExtractFrontMatter(doc)
	if err != nil {
		t.Fatalf("ExtractFrontMatter failed: %v", err)
	}

	expected := FrontMatter{
		Title: "Hello World",
		Date:  "2024-05-01",
		Draft: true,
		Tags:  []string{"go", "markdown"},
		Extra: map[string]any{"author": "boots"},
	}
	if diff := cmp.Diff(expected, fm); diff != "" {
		t.Errorf("FrontMatter mismatch (-want +got):\n%s", diff)
	}
	if body != "# Hello\n\nBody text" {
		t.Errorf("body = %q", body)
	}
}

func TestExtractFrontMatterAbsent(t *testing.T) {
	doc := "# Just a page\n\n---\nnot: front matter\n---"
	fm, body, err := ExtractFrontMatter(doc)
	if err != nil {
		t.Fatalf("ExtractFrontMatter failed: %v", err)
	}
	if body != doc {
		t.Errorf("Document without front matter should be unchanged, got %q", body)
	}
	if fm.Title != "" || fm.Extra != nil {
		t.Errorf("Expected empty front matter, got %+v", fm)
	}
}

func TestExtractFrontMatterErrors(t *testing.T) {
	if _, _, err := ExtractFrontMatter("---\ntitle: x\n"); !errors.Is(err, ErrUnterminatedFrontMatter) {
		t.Errorf("Expected ErrUnterminatedFrontMatter, got %v", err)
	}
	if _, _, err := ExtractFrontMatter("---\ntitle: [unclosed\n---\n"); err == nil {
		t.Error("Expected a YAML parse error")
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "first h1", input: "## Intro\n\n# The **Real** Title\n\n# Second", expected: "The Real Title"},
		{name: "with link", input: "# Go to [site](https://x)", expected: "Go to site"},
		{name: "no h1", input: "## Only h2\n\ntext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Convert(tt.input)
			if err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			actual, err := ExtractTitle(root)
			if tt.wantErr {
				if !errors.Is(err, ErrNoTitle) {
					t.Errorf("Expected ErrNoTitle, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractTitle failed: %v", err)
			}
			if actual != tt.expected {
				t.Errorf("ExtractTitle = %q, want %q", actual, tt.expected)
			}
		})
	}
}
