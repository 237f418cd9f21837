package records

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColor is used for uncategorized records and dangling category names.
const DefaultColor = "#FFFFFF"

// Category is a named, colored tag.
type Category struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// ValidateColor checks that hex is a #RRGGBB color.
func ValidateColor(hex string) error {
	if len(hex) != 7 || !strings.HasPrefix(hex, "#") {
		return fmt.Errorf("invalid color %q, use #RRGGBB", hex)
	}
	if _, err := colorful.Hex(hex); err != nil {
		return fmt.Errorf("invalid color %q, use #RRGGBB", hex)
	}
	return nil
}

// Categories is an insertion-ordered mapping of category name to hex color.
type Categories struct {
	names  []string
	colors map[string]string
}

func NewCategories() *Categories {
	return &Categories{colors: make(map[string]string)}
}

func (c *Categories) Len() int {
	return len(c.names)
}

func (c *Categories) Has(name string) bool {
	_, ok := c.colors[name]
	return ok
}

// Color returns the color of name, or DefaultColor when name is empty or unknown.
func (c *Categories) Color(name string) string {
	if color, ok := c.colors[name]; ok && name != "" {
		return color
	}
	return DefaultColor
}

// Set adds a category or replaces its color in place.
func (c *Categories) Set(name, color string) {
	if _, exists := c.colors[name]; !exists {
		c.names = append(c.names, name)
	}
	c.colors[name] = color
}

// Delete removes a category. Records referring to it are left alone.
func (c *Categories) Delete(name string) bool {
	if _, ok := c.colors[name]; !ok {
		return false
	}
	delete(c.colors, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
	return true
}

func (c *Categories) Names() []string {
	return append([]string(nil), c.names...)
}

func (c *Categories) All() []Category {
	out := make([]Category, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, Category{Name: n, Color: c.colors[n]})
	}
	return out
}
