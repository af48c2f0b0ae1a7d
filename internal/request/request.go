package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	bufferSize = 256
	headerEnd  = "\r\n\r\n"

	// maxConsecutiveEmptyReads bounds retries of reads returning (0, nil).
	maxConsecutiveEmptyReads = 100

	// MaxHeaderBytes bounds how much header input is drained before the
	// request is rejected.
	MaxHeaderBytes = 64 << 10
)

var (
	// ErrNoData means the peer closed the connection without sending anything.
	ErrNoData = errors.New("connection closed before any data was sent")
	// ErrHeaderTooLarge means no header terminator was seen within MaxHeaderBytes.
	ErrHeaderTooLarge = errors.New("request header too large")
)

type Request struct {
	RequestLine RequestLine
	// Header holds the raw bytes up to and including the blank line.
	Header []byte
}

type RequestLine struct {
	HttpVersion   string
	RequestTarget string
	Method        string
}

// RequestFromReader reads the first chunk of a request, extracts the
// method, target and version tokens and drains input until the blank line
// that ends the header block. Bytes after the blank line are ignored.
func RequestFromReader(reader io.Reader) (*Request, error) {
	buf := make([]byte, bufferSize)

	n, err := read(reader, buf[:bufferSize-1])
	if n == 0 {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("read: %w", err)
	}

	data := append(make([]byte, 0, bufferSize), buf[:n]...)
	searchFrom := 0
	for {
		if idx := bytes.Index(data[searchFrom:], []byte(headerEnd)); idx != -1 {
			end := searchFrom + idx + len(headerEnd)
			return &Request{
				RequestLine: requestLineFromBytes(data[:end]),
				Header:      data[:end],
			}, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("read header: %w", io.ErrUnexpectedEOF)
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		if len(data) > MaxHeaderBytes {
			return nil, ErrHeaderTooLarge
		}

		// the terminator may straddle the previous read
		searchFrom = max(len(data)-len(headerEnd)+1, 0)
		n, err = read(reader, buf)
		data = append(data, buf[:n]...)
	}
}

// read retries reads that return neither data nor an error.
func read(reader io.Reader, p []byte) (int, error) {
	for i := 0; i < maxConsecutiveEmptyReads; i++ {
		n, err := reader.Read(p)
		if n > 0 || err != nil {
			return n, err
		}
	}
	return 0, io.ErrNoProgress
}

// requestLineFromBytes takes the first three whitespace separated tokens.
// Missing tokens are left empty and extra ones are ignored.
func requestLineFromBytes(b []byte) RequestLine {
	parts := strings.Fields(string(b))
	for len(parts) < 3 {
		parts = append(parts, "")
	}

	return RequestLine{
		Method:        parts[0],
		RequestTarget: parts[1],
		HttpVersion:   parts[2],
	}
}

// SupportedVersion reports whether v is a protocol version the server speaks.
func SupportedVersion(v string) bool {
	return v == "HTTP/1.0" || v == "HTTP/1.1"
}
