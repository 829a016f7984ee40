package tool

import (
	"strings"
	"sync"
)

// Catalog is a name-indexed set of tools, safe for concurrent use.
// Lookups are case-insensitive; insertion order is kept for [Catalog.List].
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewCatalog returns a catalog holding tools. A later tool replaces an
// earlier one with the same name.
func NewCatalog(tools ...Tool) *Catalog {
	c := &Catalog{tools: make(map[string]Tool)}
	c.Add(tools...)
	return c
}

// Add registers tools under their declared names.
func (c *Catalog) Add(tools ...Tool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tools {
		key := strings.ToLower(t.Declaration().Name)
		if _, exists := c.tools[key]; !exists {
			c.order = append(c.order, key)
		}
		c.tools[key] = t
	}
}

// Get returns the tool registered under name.
func (c *Catalog) Get(name string) (Tool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tools[strings.ToLower(name)]
	return t, ok
}

// Callable returns the tool registered under name when it can be executed.
func (c *Catalog) Callable(name string) (Callable, bool) {
	t, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	callable, ok := t.(Callable)
	return callable, ok
}

// AllCallable reports whether every registered tool is executable. An
// empty catalog is not.
func (c *Catalog) AllCallable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.tools) == 0 {
		return false
	}
	for _, t := range c.tools {
		if _, ok := t.(Callable); !ok {
			return false
		}
	}
	return true
}

// List returns the registered tools in insertion order.
func (c *Catalog) List() []Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Tool, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.tools[key])
	}
	return out
}

// Size returns the number of registered tools.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}
