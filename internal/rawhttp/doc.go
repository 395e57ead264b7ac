// Package rawhttp reads the bare-bones HTTP/1.x subset the users server
// speaks: a request line, an optional header block that is skipped, and a
// body after the first blank line. Responses are a fixed status line followed
// directly by the body; no headers are ever written.
package rawhttp
