package rawhttp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxRequestSize bounds the single read taken from a connection. Anything
// past it is silently truncated.
const MaxRequestSize = 1024

const headerTerminator = "\r\n\r\n"

// Request is the parsed shape of one raw request buffer.
type Request struct {
	Method string
	Path   string
	// ID is the third "/"-separated segment of Path, or "" if there is none.
	ID   string
	Body string
}

// Parse extracts method, path, id and body from a raw buffer. It never fails:
// invalid UTF-8 is replaced and missing parts come back empty.
func Parse(buf []byte) Request {
	if len(buf) > MaxRequestSize {
		buf = buf[:MaxRequestSize]
	}
	raw := lossyString(buf)

	var req Request
	line, _, _ := strings.Cut(raw, "\n")
	fields := strings.Fields(line)
	if len(fields) > 0 {
		req.Method = fields[0]
	}
	if len(fields) > 1 {
		req.Path = fields[1]
	}
	req.ID = pathID(req.Path)

	if _, body, ok := strings.Cut(raw, headerTerminator); ok {
		req.Body = body
	}
	return req
}

func pathID(path string) string {
	segments := strings.SplitN(path, "/", 4)
	if len(segments) < 3 {
		return ""
	}
	id := segments[2]
	if i := strings.IndexFunc(id, unicode.IsSpace); i >= 0 {
		id = id[:i]
	}
	return id
}

// lossyString decodes buf as UTF-8, replacing every maximal ill-formed
// subsequence with one U+FFFD. "\xff\xfe" becomes two replacement characters,
// a truncated three-byte sequence becomes one.
func lossyString(buf []byte) string {
	if utf8.Valid(buf) {
		return string(buf)
	}
	var b strings.Builder
	b.Grow(len(buf) + 8)
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size <= 1 {
			b.WriteRune(utf8.RuneError)
			buf = buf[invalidPrefixLen(buf):]
			continue
		}
		b.Write(buf[:size])
		buf = buf[size:]
	}
	return b.String()
}

// invalidPrefixLen returns the length of the ill-formed subsequence at the
// start of p: a lead byte plus the continuation bytes that were still valid
// for it (Unicode table 3-7).
func invalidPrefixLen(p []byte) int {
	lo, hi := byte(0x80), byte(0xBF)
	var n int
	switch b := p[0]; {
	case b >= 0xC2 && b <= 0xDF:
		n = 2
	case b == 0xE0:
		n, lo = 3, 0xA0
	case b == 0xED:
		n, hi = 3, 0x9F
	case b >= 0xE1 && b <= 0xEF:
		n = 3
	case b == 0xF0:
		n, lo = 4, 0x90
	case b >= 0xF1 && b <= 0xF3:
		n = 4
	case b == 0xF4:
		n, hi = 4, 0x8F
	default:
		return 1
	}
	if len(p) < 2 || p[1] < lo || p[1] > hi {
		return 1
	}
	i := 2
	for i < n && i < len(p) && p[i] >= 0x80 && p[i] <= 0xBF {
		i++
	}
	return i
}
