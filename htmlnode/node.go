package htmlnode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingValue is returned when rendering a leaf that has no value
	ErrMissingValue = errors.New("leaf node has no value")
	// ErrMissingTag is returned when rendering a container that has no tag
	ErrMissingTag = errors.New("container node has no tag")
	// ErrMissingChildren is returned when rendering a container whose children were never set
	ErrMissingChildren = errors.New("container node has no children")
)

// Node is an element of the HTML output tree.
// It is implemented only by *Leaf and *Container.
type Node interface {
	// HTML serializes the node and everything below it
	HTML() (string, error)
	node()
}

// Attr is a single HTML attribute
type Attr struct {
	Key   string
	Value string
}

// Attributes is an ordered attribute list with unique keys.
// Rendering follows insertion order.
type Attributes []Attr

// Set adds or replaces an attribute. A replaced key keeps its original position.
func (a *Attributes) Set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attr{Key: key, Value: value})
}

// Get returns the value for key
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// HTML renders the attributes as ` key="value"` pairs. Values are not escaped.
func (a Attributes) HTML() string {
	if len(a) == 0 {
		return ""
	}
	var b strings.Builder
	for _, attr := range a {
		fmt.Fprintf(&b, ` %s="%s"`, attr.Key, attr.Value)
	}
	return b.String()
}

// Leaf is a node without children: raw text when Tag is empty, otherwise a single element
type Leaf struct {
	Tag   string
	Attrs Attributes

	value    string
	hasValue bool
}

// NewLeaf creates a leaf with the given tag and value. An empty tag makes a raw text leaf.
func NewLeaf(tag, value string, attrs ...Attr) *Leaf {
	return &Leaf{Tag: tag, Attrs: Attributes(attrs), value: value, hasValue: true}
}

// Text creates a raw text leaf
func Text(value string) *Leaf {
	return NewLeaf("", value)
}

// Value returns the leaf value and whether one was set
func (l *Leaf) Value() (string, bool) {
	return l.value, l.hasValue
}

// SetValue sets the leaf value
func (l *Leaf) SetValue(value string) {
	l.value = value
	l.hasValue = true
}

// HTML renders the leaf. Raw text leaves are returned verbatim.
func (l *Leaf) HTML() (string, error) {
	if !l.hasValue {
		return "", fmt.Errorf("%w (tag %q)", ErrMissingValue, l.Tag)
	}
	if l.Tag == "" {
		return l.value, nil
	}
	return fmt.Sprintf("<%s%s>%s</%s>", l.Tag, l.Attrs.HTML(), l.value, l.Tag), nil
}

func (l *Leaf) node() {}

// Container is an element with an ordered list of children.
// A nil Children slice is invalid; an empty non-nil slice renders an empty element.
type Container struct {
	Tag      string
	Children []Node
	Attrs    Attributes
}

// NewContainer creates a container. A nil children argument is replaced by an empty slice.
func NewContainer(tag string, children []Node, attrs ...Attr) *Container {
	if children == nil {
		children = []Node{}
	}
	return &Container{Tag: tag, Children: children, Attrs: Attributes(attrs)}
}

// Append adds children in order
func (c *Container) Append(children ...Node) {
	if c.Children == nil {
		c.Children = make([]Node, 0, len(children))
	}
	c.Children = append(c.Children, children...)
}

// HTML renders the opening tag, every child in order and the closing tag
func (c *Container) HTML() (string, error) {
	if c.Tag == "" {
		return "", ErrMissingTag
	}
	if c.Children == nil {
		return "", fmt.Errorf("%w (tag %q)", ErrMissingChildren, c.Tag)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<%s%s>", c.Tag, c.Attrs.HTML())
	for i, child := range c.Children {
		if child == nil {
			return "", fmt.Errorf("<%s> child %d is nil", c.Tag, i)
		}
		s, err := child.HTML()
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	fmt.Fprintf(&b, "</%s>", c.Tag)
	return b.String(), nil
}

func (c *Container) node() {}
