// Package module resolves request paths to content generators.
//
// A Handle is bound to one request: it is resolved, used to generate a
// single response body and released. Handles are never cached or shared.
package module

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// Suffix is appended to a module name to form the name of its loadable unit.
const Suffix = ".so"

var (
	ErrNotFound    = errors.New("module not found")
	ErrInvalidName = errors.New("invalid module name")
	ErrReleased    = errors.New("module handle already released")
)

// Generator writes one response body.
type Generator interface {
	Generate(w io.Writer) error
}

type GeneratorFunc func(w io.Writer) error

func (f GeneratorFunc) Generate(w io.Writer) error {
	return f(w)
}

// Factory builds a fresh Generator for each resolved handle.
type Factory func() (Generator, error)

// Registry must be safe for concurrent use. Every handle returned by
// Resolve has to be passed to Release once the response is written.
type Registry interface {
	Resolve(name string) (*Handle, error)
	Release(h *Handle)
}

type Handle struct {
	name     string
	gen      Generator
	done     func()
	released atomic.Bool
}

func newHandle(name string, gen Generator, done func()) *Handle {
	return &Handle{name: name, gen: gen, done: done}
}

func (h *Handle) Name() string {
	return h.name
}

func (h *Handle) Generate(w io.Writer) error {
	if h.released.Load() {
		return fmt.Errorf("%s: %w", h.name, ErrReleased)
	}
	return h.gen.Generate(w)
}

// release ends the handle. Only the first call has an effect.
func (h *Handle) release() {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return
	}
	if h.done != nil {
		h.done()
	}
}

// ValidName rejects names that could escape a module namespace.
func ValidName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.ContainsAny(name, "/\\\x00"), strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func notFound(name string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fmt.Errorf("%w: %s: %w", ErrNotFound, name, cause)
}
