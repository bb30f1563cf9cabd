package convert

import (
	"errors"
	"strings"

	"github.com/gerunddev/mdsite/htmlnode"
)

// ErrNoTitle is returned when a tree has no <h1>
var ErrNoTitle = errors.New("no h1 heading found")

// ExtractTitle returns the plain text of the first <h1> in the tree
func ExtractTitle(root htmlnode.Node) (string, error) {
	var title string
	found := false

	htmlnode.Walk(root, func(n htmlnode.Node) bool {
		if found {
			return false
		}
		if c, ok := n.(*htmlnode.Container); ok && c.Tag == "h1" {
			title = strings.TrimSpace(htmlnode.PlainText(c))
			found = true
			return false
		}
		return true
	})

	if !found {
		return "", ErrNoTitle
	}
	return title, nil
}
