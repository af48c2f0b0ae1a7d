// Package issue serves the system identification text from /etc/issue.
package issue

import (
	"fmt"
	"html"
	"io"
	"os"

	"github.com/nhdewitt/modserve/internal/module"
)

const DefaultPath = "/etc/issue"

const pageTemplate = "<html>\n" +
	" <body>\n" +
	"  <pre>\n%s</pre>\n" +
	" </body>\n" +
	"</html>\n"

const errorPage = "<html>\n" +
	" <body>\n" +
	"  <p>Error: Could not open %s.</p>\n" +
	" </body>\n" +
	"</html>\n"

type Page struct {
	path string
}

func New() (module.Generator, error) {
	return &Page{path: DefaultPath}, nil
}

// Generate writes the file contents. An unreadable file yields an error
// page, and the error is returned so the caller can log it.
func (p *Page) Generate(w io.Writer) error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if _, werr := fmt.Fprintf(w, errorPage, html.EscapeString(p.path)); werr != nil {
			return werr
		}
		return fmt.Errorf("read %s: %w", p.path, err)
	}
	_, err = fmt.Fprintf(w, pageTemplate, html.EscapeString(string(data)))
	return err
}
