// Package diskfree serves the output of df.
package diskfree

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/nhdewitt/modserve/internal/module"
)

const (
	header = "<html>\n <body>\n  <pre>\n"
	footer = "  </pre>\n </body>\n</html>\n"
)

type Page struct {
	command string
	args    []string
}

func New() (module.Generator, error) {
	return &Page{command: "df", args: []string{"-h"}}, nil
}

// Generate streams the command's standard output straight into the body.
func (p *Page) Generate(w io.Writer) error {
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	cmd := exec.Command(p.command, p.args...)
	cmd.Stdout = w
	runErr := cmd.Run()
	if runErr != nil {
		fmt.Fprintf(w, "Error: %s failed.\n", p.command)
	}

	if _, err := io.WriteString(w, footer); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("run %s: %w", p.command, runErr)
	}
	return nil
}
