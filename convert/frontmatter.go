package convert

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatterDelimiter opens and closes a YAML front matter block
const FrontMatterDelimiter = "---"

// ErrUnterminatedFrontMatter is returned when an opening --- has no closing line
var ErrUnterminatedFrontMatter = errors.New("front matter is not terminated")

// FrontMatter is the YAML header of a page
type FrontMatter struct {
	Title    string         `yaml:"title"`
	Date     string         `yaml:"date"`
	Draft    bool           `yaml:"draft"`
	Tags     []string       `yaml:"tags"`
	Template string         `yaml:"template"`
	Extra    map[string]any `yaml:",inline"`
}

// ExtractFrontMatter splits a leading YAML front matter block from the document body.
// Documents that do not start with --- are returned unchanged with an empty FrontMatter.
func ExtractFrontMatter(document string) (FrontMatter, string, error) {
	var fm FrontMatter

	lines := strings.Split(document, "\n")
	if strings.TrimRight(lines[0], " \t\r") != FrontMatterDelimiter {
		return fm, document, nil
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t\r") != FrontMatterDelimiter {
			continue
		}

		raw := strings.Join(lines[1:i], "\n")
		if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
			return FrontMatter{}, "", fmt.Errorf("failed to parse front matter: %w", err)
		}
		return fm, strings.Join(lines[i+1:], "\n"), nil
	}

	return FrontMatter{}, "", ErrUnterminatedFrontMatter
}
