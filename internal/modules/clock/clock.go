// Package clock serves a page showing the current time.
package clock

import (
	"fmt"
	"io"
	"time"

	"github.com/nhdewitt/modserve/internal/module"
)

const page = "<html>\n" +
	" <head>\n" +
	"  <meta http-equiv=\"refresh\" content=\"5\">\n" +
	" </head>\n" +
	" <body>\n" +
	"  <p>The current time is %s.</p>\n" +
	" </body>\n" +
	"</html>\n"

type Page struct {
	now func() time.Time
}

func New() (module.Generator, error) {
	return &Page{now: time.Now}, nil
}

func (p *Page) Generate(w io.Writer) error {
	_, err := fmt.Fprintf(w, page, p.now().Format(time.ANSIC))
	return err
}
