package response

type StatusCode int

const (
	StatusOK             StatusCode = 200
	StatusBadRequest     StatusCode = 400
	StatusNotFound       StatusCode = 404
	StatusNotImplemented StatusCode = 501
)

// Reason returns the reason phrase written on the status line.
func (c StatusCode) Reason() string {
	switch c {
	case StatusOK:
		return "OK"
	case StatusBadRequest:
		return "Bad Request"
	case StatusNotFound:
		return "Not Found"
	case StatusNotImplemented:
		return "Method Not Implemented"
	default:
		return ""
	}
}
