package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		method, path string
		want         Route
	}{
		{"POST", "/users", RouteCreate},
		{"POST", "/users/5", RouteCreate},
		{"GET", "/users/5", RouteReadOne},
		{"GET", "/users/", RouteReadOne},
		{"GET", "/users", RouteReadAll},
		{"GET", "/users123", RouteReadAll},
		{"PUT", "/users/5", RouteUpdate},
		{"PUT", "/users", RouteNotFound},
		{"DELETE", "/users/5", RouteDelete},
		{"DELETE", "/users", RouteNotFound},
		{"PATCH", "/users/1", RouteNotFound},
		{"GET", "/", RouteNotFound},
		{"get", "/users", RouteNotFound},
		{"", "", RouteNotFound},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Match(c.method, c.path), "%s %s", c.method, c.path)
	}
}

func TestRouteString(t *testing.T) {
	assert.Equal(t, "read_one", RouteReadOne.String())
	assert.Equal(t, "not_found", RouteNotFound.String())
}
