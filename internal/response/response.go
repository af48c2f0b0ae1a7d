package response

import (
	"bytes"
	"fmt"
	"io"
)

const contentType = "Content-type: text/html\n"

const badRequestBody = "<html>\n" +
	" <body>\n" +
	"  <h1>Bad Request</h1>\n" +
	"  <p>This server did not understand your request.</p>\n" +
	" </body>\n" +
	"</html>\n"

const notFoundTemplate = "<html>\n" +
	" <body>\n" +
	"  <h1>Not Found</h1>\n" +
	"  <p>The requested URL %s was not found on this server.</p>\n" +
	" </body>\n" +
	"</html>\n"

const notImplementedTemplate = "<html>\n" +
	" <body>\n" +
	"  <h1>Method Not Implemented</h1>\n" +
	"  <p>The method %s is not implemented by this server.</p>\n" +
	" </body>\n" +
	"</html>\n"

func WriteStatusLine(w io.Writer, statusCode StatusCode) error {
	reason := statusCode.Reason()
	if reason == "" {
		return fmt.Errorf("unsupported status code: %d", statusCode)
	}
	_, err := fmt.Fprintf(w, "HTTP/1.0 %d %s\n", statusCode, reason)
	return err
}

func WriteHeaders(w io.Writer) error {
	_, err := io.WriteString(w, contentType+"\n")
	return err
}

// Canned renders the complete response for statusCode. arg fills the
// template: the target for NotFound, the method for NotImplemented.
// StatusOK yields the header only.
func Canned(statusCode StatusCode, arg string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteStatusLine(&buf, statusCode); err != nil {
		return nil, err
	}
	if err := WriteHeaders(&buf); err != nil {
		return nil, err
	}

	switch statusCode {
	case StatusBadRequest:
		buf.WriteString(badRequestBody)
	case StatusNotFound:
		fmt.Fprintf(&buf, notFoundTemplate, arg)
	case StatusNotImplemented:
		fmt.Fprintf(&buf, notImplementedTemplate, arg)
	}
	return buf.Bytes(), nil
}
