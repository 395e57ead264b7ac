// Package httputil provides JSON response helpers for the ops endpoints.
// The user-facing TCP protocol never goes through net/http; only health and
// metrics do.
package httputil
