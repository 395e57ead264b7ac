package rawhttp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_RequestLine(t *testing.T) {
	req := Parse([]byte("GET /users/12 HTTP/1.1\r\nHost: localhost\r\n\r\n"))
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/users/12", req.Path)
	assert.Equal(t, "12", req.ID)
	assert.Equal(t, "", req.Body)
}

func TestParse_Body(t *testing.T) {
	raw := "POST /users HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{\"name\":\"Ann\",\"email\":\"ann@x.com\"}"
	req := Parse([]byte(raw))
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/users", req.Path)
	assert.Equal(t, "", req.ID)
	assert.Equal(t, `{"name":"Ann","email":"ann@x.com"}`, req.Body)
}

func TestParse_BodyAfterFirstBlankLineOnly(t *testing.T) {
	req := Parse([]byte("PUT /users/1 HTTP/1.1\r\n\r\nfirst\r\n\r\nsecond"))
	assert.Equal(t, "first\r\n\r\nsecond", req.Body)
}

func TestParse_NoBlankLineMeansNoBody(t *testing.T) {
	req := Parse([]byte("POST /users HTTP/1.1\r\nHost: x\r\n"))
	assert.Equal(t, "", req.Body)
}

func TestParse_IDSegment(t *testing.T) {
	cases := map[string]string{
		"/users":         "",
		"/users/":        "",
		"/users/7":       "7",
		"/users/7/extra": "7",
		"/users/abc":     "abc",
		"/":              "",
		"":               "",
	}
	for path, want := range cases {
		req := Parse([]byte("GET " + path + " HTTP/1.1\r\n\r\n"))
		assert.Equal(t, want, req.ID, "path %q", path)
	}
}

func TestParse_EmptyAndGarbage(t *testing.T) {
	assert.Equal(t, Request{}, Parse(nil))

	req := Parse([]byte("PATCH"))
	assert.Equal(t, "PATCH", req.Method)
	assert.Equal(t, "", req.Path)
}

func TestParse_LossyUTF8(t *testing.T) {
	req := Parse([]byte("GET /users/\xff\xfe HTTP/1.1\r\n\r\nbody\xff"))
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "��", req.ID)
	assert.Equal(t, "body�", req.Body)
}

func TestParse_LossyUTF8_ReplacementCount(t *testing.T) {
	cases := map[string]string{
		"\xff\xfe":         "\ufffd\ufffd",
		"a\xe2\x82b":       "a\ufffdb",
		"\xe2\x82":         "\ufffd",
		"\xed\xa0\x80":     "\ufffd\ufffd\ufffd",
		"\xf0\x9f\x98":     "\ufffd",
		"\xc0\xaf":         "\ufffd\ufffd",
		"caf\xc3\xa9 \x80": "caf\u00e9 \ufffd",
	}
	for in, want := range cases {
		req := Parse([]byte("POST /users HTTP/1.1\r\n\r\n" + in))
		assert.Equal(t, want, req.Body, "%q", in)
	}
}

func TestParse_TruncatesOversizedBuffer(t *testing.T) {
	head := "POST /users HTTP/1.1\r\n\r\n"
	raw := head + strings.Repeat("a", 2*MaxRequestSize)
	req := Parse([]byte(raw))
	assert.Len(t, req.Body, MaxRequestSize-len(head))
}

func TestResponse_Bytes(t *testing.T) {
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\nUser created", string(OK("User created").Bytes()))
	assert.Equal(t, "HTTP/1.1 404 NOT FOUND\r\n\r\nUser not found", string(NotFound("User not found").Bytes()))
	assert.Equal(t, "HTTP/1.1 500 INTERNAL SERVER ERROR\r\n\r\nError", string(InternalError("Error").Bytes()))
}

func TestResponse_Code(t *testing.T) {
	assert.Equal(t, 200, OK("").Code())
	assert.Equal(t, 404, NotFound("").Code())
	assert.Equal(t, 500, InternalError("").Code())
	assert.Equal(t, 0, Response{}.Code())
}
