package module

import (
	"errors"
)

// Chain asks each registry in turn. The first answer other than
// ErrNotFound wins.
type Chain []Registry

func (c Chain) Resolve(name string) (*Handle, error) {
	for _, r := range c {
		h, err := r.Resolve(name)
		if err == nil {
			return h, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, notFound(name, nil)
}

func (c Chain) Release(h *Handle) {
	h.release()
}
