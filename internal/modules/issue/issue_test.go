package issue

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issue")
	require.NoError(t, os.WriteFile(path, []byte("Debian <GNU/Linux> 12\n"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, (&Page{path: path}).Generate(&buf))
	assert.Equal(t, "<html>\n <body>\n  <pre>\nDebian &lt;GNU/Linux&gt; 12\n</pre>\n </body>\n</html>\n", buf.String())
}

func TestGenerateMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent")

	var buf bytes.Buffer
	err := (&Page{path: path}).Generate(&buf)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, buf.String(), "Could not open "+path)
}
