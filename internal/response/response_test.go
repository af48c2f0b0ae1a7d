package response

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanned(t *testing.T) {
	cases := []struct {
		name string
		code StatusCode
		arg  string
		want string
	}{
		{
			name: "ok",
			code: StatusOK,
			want: "HTTP/1.0 200 OK\nContent-type: text/html\n\n",
		},
		{
			name: "bad request",
			code: StatusBadRequest,
			want: "HTTP/1.0 400 Bad Request\nContent-type: text/html\n\n" +
				"<html>\n <body>\n  <h1>Bad Request</h1>\n" +
				"  <p>This server did not understand your request.</p>\n </body>\n</html>\n",
		},
		{
			name: "not found",
			code: StatusNotFound,
			arg:  "/missing",
			want: "HTTP/1.0 404 Not Found\nContent-type: text/html\n\n" +
				"<html>\n <body>\n  <h1>Not Found</h1>\n" +
				"  <p>The requested URL /missing was not found on this server.</p>\n </body>\n</html>\n",
		},
		{
			name: "not implemented",
			code: StatusNotImplemented,
			arg:  "DELETE",
			want: "HTTP/1.0 501 Method Not Implemented\nContent-type: text/html\n\n" +
				"<html>\n <body>\n  <h1>Method Not Implemented</h1>\n" +
				"  <p>The method DELETE is not implemented by this server.</p>\n </body>\n</html>\n",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, err := Canned(c.code, c.arg)
			require.NoError(t, err)
			assert.Equal(t, c.want, string(b))
		})
	}
}

func TestCannedTemplateArgIsLiteral(t *testing.T) {
	b, err := Canned(StatusNotFound, "/100%s")
	require.NoError(t, err)
	assert.Contains(t, string(b), "The requested URL /100%s was not found")
}

func TestCannedUnknownStatus(t *testing.T) {
	_, err := Canned(StatusCode(500), "")
	require.Error(t, err)
}

func TestWriterOrder(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	_, err := w.Write([]byte("early"))
	require.Error(t, err)

	require.NoError(t, w.WriteStatus(StatusOK, ""))
	_, err = w.Write([]byte("<p>hi</p>"))
	require.NoError(t, err)
	require.Error(t, w.WriteStatus(StatusNotFound, "/x"))

	assert.Equal(t, "HTTP/1.0 200 OK\nContent-type: text/html\n\n<p>hi</p>", buf.String())
}

func TestWriterErrorStatusEndsResponse(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteStatus(StatusBadRequest, ""))
	assert.Equal(t, StateDone, w.state)
	_, err := w.Write([]byte("more"))
	require.Error(t, err)
	require.Error(t, w.WriteStatus(StatusOK, ""))
}
