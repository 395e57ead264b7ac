package rawhttp

import "io"

// Status lines. They are the complete response vocabulary and already carry
// the blank line that ends the (empty) header block.
const (
	StatusOK            = "HTTP/1.1 200 OK\r\n\r\n"
	StatusNotFound      = "HTTP/1.1 404 NOT FOUND\r\n\r\n"
	StatusInternalError = "HTTP/1.1 500 INTERNAL SERVER ERROR\r\n\r\n"
)

// Response is a status line plus body text.
type Response struct {
	Status string
	Body   string
}

// OK builds a 200 response.
func OK(body string) Response { return Response{Status: StatusOK, Body: body} }

// NotFound builds a 404 response.
func NotFound(body string) Response { return Response{Status: StatusNotFound, Body: body} }

// InternalError builds a 500 response.
func InternalError(body string) Response { return Response{Status: StatusInternalError, Body: body} }

// Bytes renders the response exactly as it goes on the wire.
func (r Response) Bytes() []byte { return []byte(r.Status + r.Body) }

// WriteTo writes the response to w in one call.
func (r Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}

// Code returns the numeric status for logs and metrics.
func (r Response) Code() int {
	switch r.Status {
	case StatusOK:
		return 200
	case StatusNotFound:
		return 404
	case StatusInternalError:
		return 500
	}
	return 0
}
