package api

import "strings"

// Route identifies which action a request maps to.
type Route int

const (
	RouteNotFound Route = iota
	RouteCreate
	RouteReadOne
	RouteReadAll
	RouteUpdate
	RouteDelete
)

var routeNames = map[Route]string{
	RouteNotFound: "not_found",
	RouteCreate:   "create",
	RouteReadOne:  "read_one",
	RouteReadAll:  "read_all",
	RouteUpdate:   "update",
	RouteDelete:   "delete",
}

func (r Route) String() string { return routeNames[r] }

// routeTable is checked top to bottom. "/users/" must precede "/users" for
// GET, otherwise every read-one would be taken as read-all.
var routeTable = []struct {
	method string
	prefix string
	route  Route
}{
	{"POST", "/users", RouteCreate},
	{"GET", "/users/", RouteReadOne},
	{"GET", "/users", RouteReadAll},
	{"PUT", "/users/", RouteUpdate},
	{"DELETE", "/users/", RouteDelete},
}

// Match maps a method and path to a Route by plain prefix comparison, so
// "/users123" counts as "/users". This is the only routing decision in the
// server; a segment-aware matcher would replace this function alone.
func Match(method, path string) Route {
	for _, r := range routeTable {
		if method == r.method && strings.HasPrefix(path, r.prefix) {
			return r.route
		}
	}
	return RouteNotFound
}
