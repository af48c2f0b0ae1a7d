package request

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chunkReader struct {
	data            string
	numBytesPerRead int
	pos             int
}

// Read reads up to len(p) or numBytesPerRead bytes from the string per cell
// its useful for simulating reading a variable number of bytes per chunk from a network connection
func (cr *chunkReader) Read(p []byte) (n int, err error) {
	if cr.pos >= len(cr.data) {
		return 0, io.EOF
	}
	endIndex := cr.pos + cr.numBytesPerRead
	if endIndex > len(cr.data) {
		endIndex = len(cr.data)
	}
	n = copy(p, cr.data[cr.pos:endIndex])
	cr.pos += n

	return n, nil
}

type errReader struct {
	first string
	sent  bool
	err   error
}

func (er *errReader) Read(p []byte) (int, error) {
	if !er.sent && er.first != "" {
		er.sent = true
		return copy(p, er.first), nil
	}
	return 0, er.err
}

func TestRequestLineParse(t *testing.T) {
	cases := []struct {
		data                            string
		wantMethod, wantTarget, wantVer string
	}{
		{"GET / HTTP/1.1\r\nHost: x\r\n\r\n", "GET", "/", "HTTP/1.1"},
		{"GET /hello HTTP/1.0\r\n\r\n", "GET", "/hello", "HTTP/1.0"},
		{"DELETE / HTTP/1.0\r\n\r\n", "DELETE", "/", "HTTP/1.0"},
		{"GET /time HTTP/1.1 trailing junk\r\nAccept: */*\r\n\r\n", "GET", "/time", "HTTP/1.1"},
		{"GET /x HTTP/2.0\r\n\r\n", "GET", "/x", "HTTP/2.0"},
	}
	for _, c := range cases {
		for _, chunk := range []int{1, 2, 3, len(c.data)} {
			reader := &chunkReader{data: c.data, numBytesPerRead: chunk}
			r, err := RequestFromReader(reader)
			require.NoError(t, err, "chunk %d", chunk)
			require.NotNil(t, r)
			assert.Equal(t, c.wantMethod, r.RequestLine.Method)
			assert.Equal(t, c.wantTarget, r.RequestLine.RequestTarget)
			assert.Equal(t, c.wantVer, r.RequestLine.HttpVersion)
			assert.True(t, strings.HasSuffix(string(r.Header), "\r\n\r\n"))
		}
	}
}

func TestRequestMissingTokens(t *testing.T) {
	r, err := RequestFromReader(&chunkReader{data: "GET\r\n\r\n", numBytesPerRead: 64})
	require.NoError(t, err)
	assert.Equal(t, "GET", r.RequestLine.Method)
	assert.Empty(t, r.RequestLine.RequestTarget)
	assert.Empty(t, r.RequestLine.HttpVersion)
}

func TestRequestBodyIgnored(t *testing.T) {
	data := "GET /a HTTP/1.0\r\n\r\nbody bytes"
	r, err := RequestFromReader(&chunkReader{data: data, numBytesPerRead: len(data)})
	require.NoError(t, err)
	assert.Equal(t, "GET /a HTTP/1.0\r\n\r\n", string(r.Header))
}

func TestRequestTerminatorAcrossReads(t *testing.T) {
	// first chunk fills the initial buffer, the terminator is split over the next two reads
	line := "GET /hello HTTP/1.1\r\nX-Pad: " + strings.Repeat("a", 300) + "\r\n\r\n"
	for _, chunk := range []int{255, 256, 257} {
		r, err := RequestFromReader(&chunkReader{data: line, numBytesPerRead: chunk})
		require.NoError(t, err)
		assert.Equal(t, "/hello", r.RequestLine.RequestTarget)
		assert.Len(t, r.Header, len(line))
	}
}

// emptyReader returns (0, nil) for the first empty reads, then defers to r.
type emptyReader struct {
	empty int
	r     io.Reader
}

func (er *emptyReader) Read(p []byte) (int, error) {
	if er.empty > 0 {
		er.empty--
		return 0, nil
	}
	return er.r.Read(p)
}

func TestRequestEmptyReadsRetried(t *testing.T) {
	// an empty first read is not a closed connection
	r, err := RequestFromReader(&emptyReader{
		empty: 1,
		r:     &chunkReader{data: "GET /hello HTTP/1.0\r\n\r\n", numBytesPerRead: 64},
	})
	require.NoError(t, err)
	assert.Equal(t, "/hello", r.RequestLine.RequestTarget)

	// empty reads between header chunks
	r, err = RequestFromReader(&emptyReader{
		empty: maxConsecutiveEmptyReads - 1,
		r:     &chunkReader{data: "GET /a HTTP/1.1\r\nHost: x\r\n\r\n", numBytesPerRead: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "/a", r.RequestLine.RequestTarget)

	// a reader that never makes progress is an error, not ErrNoData
	_, err = RequestFromReader(&emptyReader{empty: maxConsecutiveEmptyReads})
	require.ErrorIs(t, err, io.ErrNoProgress)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestRequestErrors(t *testing.T) {
	// peer closed before sending anything
	_, err := RequestFromReader(&chunkReader{})
	require.ErrorIs(t, err, ErrNoData)

	// first read fails
	boom := errors.New("connection reset")
	_, err = RequestFromReader(&errReader{err: boom})
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNoData)

	// Early EOF (no blank line)
	bad := "GET /coffee HTTP/1.1\r\n"
	_, err = RequestFromReader(&chunkReader{data: bad, numBytesPerRead: 2})
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	// read fails while draining headers
	_, err = RequestFromReader(&errReader{first: "GET / HTTP/1.0\r\n", err: boom})
	require.ErrorIs(t, err, boom)

	// header never ends
	huge := "GET / HTTP/1.0\r\n" + strings.Repeat("X-Long: yes\r\n", MaxHeaderBytes/8)
	_, err = RequestFromReader(&chunkReader{data: huge, numBytesPerRead: 4096})
	require.ErrorIs(t, err, ErrHeaderTooLarge)
}

func TestSupportedVersion(t *testing.T) {
	assert.True(t, SupportedVersion("HTTP/1.0"))
	assert.True(t, SupportedVersion("HTTP/1.1"))
	assert.False(t, SupportedVersion("HTTP/2.0"))
	assert.False(t, SupportedVersion("http/1.1"))
	assert.False(t, SupportedVersion(""))
}
