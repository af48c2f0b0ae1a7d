package module

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"plugin"
	"sync/atomic"
)

// PluginDir loads modules from <dir>/<name>.so built with
// `go build -buildmode=plugin`. A plugin exports either
//
//	func Generate(w io.Writer) error
//
// or a variable named Module whose pointer implements Generator.
//
// The Go runtime cannot unload a plugin, so Release only ends the handle;
// the loaded code stays mapped for the life of the process. Under process
// isolation that life is a single request.
type PluginDir struct {
	dir  string
	open atomic.Int64
}

func NewPluginDir(dir string) *PluginDir {
	return &PluginDir{dir: dir}
}

func (p *PluginDir) Path(name string) string {
	return filepath.Join(p.dir, name+Suffix)
}

func (p *PluginDir) Resolve(name string) (*Handle, error) {
	if err := ValidName(name); err != nil {
		return nil, notFound(name, err)
	}

	path := p.Path(name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(name, nil)
		}
		return nil, notFound(name, err)
	}

	plug, err := plugin.Open(path)
	if err != nil {
		return nil, notFound(name, fmt.Errorf("open %s: %w", path, err))
	}
	gen, err := lookupGenerator(plug)
	if err != nil {
		return nil, notFound(name, fmt.Errorf("%s: %w", path, err))
	}

	p.open.Add(1)
	return newHandle(name, gen, func() { p.open.Add(-1) }), nil
}

func (p *PluginDir) Release(h *Handle) {
	h.release()
}

func (p *PluginDir) Open() int64 {
	return p.open.Load()
}

func lookupGenerator(plug *plugin.Plugin) (Generator, error) {
	if sym, err := plug.Lookup("Generate"); err == nil {
		switch fn := sym.(type) {
		case func(io.Writer) error:
			return GeneratorFunc(fn), nil
		case *func(io.Writer) error:
			return GeneratorFunc(*fn), nil
		}
		return nil, fmt.Errorf("symbol Generate has type %T", sym)
	}

	sym, err := plug.Lookup("Module")
	if err != nil {
		return nil, errors.New("no Generate or Module symbol")
	}
	switch m := sym.(type) {
	case *Generator:
		return *m, nil
	case Generator:
		return m, nil
	}
	return nil, fmt.Errorf("symbol Module has type %T", sym)
}
