package response

import (
	"fmt"
	"io"
)

type writerState int

const (
	StateWritingStatus writerState = iota
	StateWritingBody
	StateDone
)

// Writer emits exactly one response per connection. Body bytes are only
// accepted after an OK status and go straight to the underlying writer.
type Writer struct {
	writer io.Writer
	state  writerState
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		writer: w,
		state:  StateWritingStatus,
	}
}

func (w *Writer) WriteStatus(statusCode StatusCode, arg string) error {
	if w.state != StateWritingStatus {
		return fmt.Errorf("writer state out-of-order")
	}

	b, err := Canned(statusCode, arg)
	if err != nil {
		return err
	}
	if statusCode == StatusOK {
		w.state = StateWritingBody
	} else {
		w.state = StateDone
	}

	_, err = w.writer.Write(b)
	return err
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.state != StateWritingBody {
		return 0, fmt.Errorf("writer state out-of-order")
	}
	return w.writer.Write(p)
}
