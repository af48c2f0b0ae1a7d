// Package visits counts page views in redis.
package visits

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nhdewitt/modserve/internal/module"
)

const DefaultKey = "modserve:visits"

const timeout = 2 * time.Second

const page = "<html>\n" +
	" <body>\n" +
	"  <p>You are visitor number %d.</p>\n" +
	" </body>\n" +
	"</html>\n"

const unavailable = "<html>\n" +
	" <body>\n" +
	"  <p>The visit counter is unavailable.</p>\n" +
	" </body>\n" +
	"</html>\n"

type Counter struct {
	client redis.Cmdable
	key    string
}

// New returns a factory sharing client across handles. Counting happens
// in redis, so concurrent execution units see one sequence.
func New(client redis.Cmdable, key string) module.Factory {
	if key == "" {
		key = DefaultKey
	}
	return func() (module.Generator, error) {
		return &Counter{client: client, key: key}, nil
	}
}

func (c *Counter) Generate(w io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := c.client.Incr(ctx, c.key).Result()
	if err != nil {
		if _, werr := io.WriteString(w, unavailable); werr != nil {
			return werr
		}
		return fmt.Errorf("incr %s: %w", c.key, err)
	}
	_, err = fmt.Fprintf(w, page, n)
	return err
}
