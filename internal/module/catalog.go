package module

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Catalog is an in-process registry of named factories.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
	open      atomic.Int64
}

func NewCatalog() *Catalog {
	return &Catalog{
		factories: make(map[string]Factory),
	}
}

func (c *Catalog) Register(name string, f Factory) error {
	if err := ValidName(name); err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("module %s: nil factory", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.factories[name]; exists {
		return fmt.Errorf("module %s already registered", name)
	}
	c.factories[name] = f
	return nil
}

func (c *Catalog) Resolve(name string) (*Handle, error) {
	if err := ValidName(name); err != nil {
		return nil, notFound(name, err)
	}

	c.mu.RLock()
	f, ok := c.factories[name]
	c.mu.RUnlock()
	if !ok {
		return nil, notFound(name, nil)
	}

	gen, err := f()
	if err != nil {
		return nil, notFound(name, err)
	}

	c.open.Add(1)
	return newHandle(name, gen, func() { c.open.Add(-1) }), nil
}

func (c *Catalog) Release(h *Handle) {
	h.release()
}

// Open reports the number of handles resolved but not yet released.
func (c *Catalog) Open() int64 {
	return c.open.Load()
}

func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
