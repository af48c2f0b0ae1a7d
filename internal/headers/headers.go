package headers

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	crlf                = "\r\n"
	validFieldNameChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!#$%&'*+-.^_`|~"
)

// Headers maps lower-cased field names to their (comma joined) values.
// The server never acts on them; they exist for diagnostics.
type Headers map[string]string

func NewHeaders() Headers {
	return map[string]string{}
}

// FromBlock parses the field lines of a raw header block, skipping the
// request line. Parsing stops at the first blank line.
func FromBlock(block []byte) (Headers, error) {
	h := NewHeaders()
	idx := bytes.Index(block, []byte(crlf))
	if idx == -1 {
		return h, nil
	}
	data := block[idx+len(crlf):]

	for len(data) > 0 {
		n, done, err := h.Parse(data)
		if err != nil {
			return h, err
		}
		if done || n == 0 {
			break
		}
		data = data[n:]
	}
	return h, nil
}

// Parse consumes one field line. done is true when data starts with the
// blank line that ends the block.
func (h Headers) Parse(data []byte) (n int, done bool, err error) {
	idx := bytes.Index(data, []byte(crlf))
	if idx == -1 {
		return 0, false, nil
	}
	if idx == 0 {
		return len(crlf), true, nil
	}

	line := data[:idx]
	name, value, ok := bytes.Cut(line, []byte(":"))
	if !ok {
		return 0, false, fmt.Errorf("malformed header line (no colon): %q", line)
	}
	if len(name) == 0 || bytes.ContainsAny(name, " \t") {
		return 0, false, fmt.Errorf("malformed field-name: %q", line)
	}
	for _, c := range string(name) {
		if !strings.ContainsRune(validFieldNameChars, c) {
			return 0, false, fmt.Errorf("invalid character in field-name: %q", line)
		}
	}

	h.Set(string(name), string(bytes.TrimSpace(value)))
	return idx + len(crlf), false, nil
}

func (h Headers) Set(key, value string) {
	key = strings.ToLower(key)
	if v, ok := h[key]; ok {
		h[key] = v + ", " + value
		return
	}
	h[key] = value
}

func (h Headers) Get(key string) string {
	return h[strings.ToLower(key)]
}

// Names returns the field names in canonical title case, sorted.
func (h Headers) Names() []string {
	caser := cases.Title(language.English)
	names := make([]string, 0, len(h))
	for k := range h {
		names = append(names, caser.String(k))
	}
	sort.Strings(names)
	return names
}
