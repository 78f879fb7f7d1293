// Package catalog holds the closed option sets of the sign customizer:
// fonts, sizes, backboard styles and colors, and color modes.
//
// Each set is ordered. The first entry is the default, which pricing falls
// back to for unknown ids. Validation uses strict membership instead.
package catalog

import "strings"

// Entry is an option identified by a string id.
type Entry interface {
	Key() string
}

// Catalog is an ordered, read-only set of entries.
type Catalog[T Entry] struct {
	items []T
	index map[string]int
}

// New builds a catalog. It panics on an empty set or duplicate ids.
func New[T Entry](items ...T) *Catalog[T] {
	if len(items) == 0 {
		panic("catalog: empty catalog")
	}
	c := &Catalog[T]{items: items, index: make(map[string]int, len(items))}
	for i, item := range items {
		if _, dup := c.index[item.Key()]; dup {
			panic("catalog: duplicate id " + item.Key())
		}
		c.index[item.Key()] = i
	}
	return c
}

// Resolve looks an entry up by id. Ids are matched case-insensitively.
func (c *Catalog[T]) Resolve(id string) (T, bool) {
	i, ok := c.index[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Default returns the first entry.
func (c *Catalog[T]) Default() T {
	return c.items[0]
}

// ResolveOrDefault returns the entry for id or the default entry.
func (c *Catalog[T]) ResolveOrDefault(id string) T {
	if item, ok := c.Resolve(id); ok {
		return item
	}
	return c.Default()
}

// Has reports whether id is a member.
func (c *Catalog[T]) Has(id string) bool {
	_, ok := c.Resolve(id)
	return ok
}

// All returns a copy of the entries in catalog order.
func (c *Catalog[T]) All() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Keys returns the ids in catalog order.
func (c *Catalog[T]) Keys() []string {
	keys := make([]string, len(c.items))
	for i, item := range c.items {
		keys[i] = item.Key()
	}
	return keys
}
