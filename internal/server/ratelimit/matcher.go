package ratelimit

import (
	"strings"
)

// MatchRoute reports whether a request path and method match any route.
// Path matching supports prefix matching (e.g., "/api/" matches "/api/health").
func MatchRoute(path string, method string, routes []Route) bool {
	for i := range routes {
		route := &routes[i]
		if route.Method != "" && route.Method != method {
			continue
		}
		if route.Path == path {
			return true
		}
		if strings.HasSuffix(route.Path, "/") && strings.HasPrefix(path, route.Path) {
			return true
		}
	}
	return false
}
