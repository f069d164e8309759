package observability

import (
	"context"
	"net/http"
)

// UnmatchedRoute labels requests no handler claimed.
const UnmatchedRoute = "unmatched"

type routeKey struct{}

type routeHolder struct {
	name string
}

func (h *routeHolder) label() string {
	if h == nil || h.name == "" {
		return UnmatchedRoute
	}
	return h.name
}

func withRouteHolder(r *http.Request) (*http.Request, *routeHolder) {
	if holder, ok := r.Context().Value(routeKey{}).(*routeHolder); ok {
		return r, holder
	}
	holder := &routeHolder{}
	return r.WithContext(context.WithValue(r.Context(), routeKey{}, holder)), holder
}

// SetRoute names the route serving r for metrics and spans.
func SetRoute(r *http.Request, name string) {
	if r == nil {
		return
	}
	if holder, ok := r.Context().Value(routeKey{}).(*routeHolder); ok {
		holder.name = name
	}
}

// Route wraps next so requests it serves are labelled name.
func Route(name string, next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetRoute(r, name)
		next.ServeHTTP(w, r)
	})
}
