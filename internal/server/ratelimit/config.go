package ratelimit

// Route identifies an endpoint by method and path.
type Route struct {
	Path   string // exact path, or a prefix when it ends with "/"
	Method string // empty matches any method
}

// DefaultExemptRoutes returns the routes that are never counted: health checks
// and CORS preflight requests.
func DefaultExemptRoutes() []Route {
	return []Route{
		{Path: "/health", Method: "GET"},
		{Path: "/api/health", Method: "GET"},
		{Path: "/", Method: "OPTIONS"},
	}
}
