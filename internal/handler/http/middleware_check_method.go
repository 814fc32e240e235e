package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod replaces chi's default MethodNotAllowed handler. A request
// whose path matches a registered route but whose method does not is
// answered with 404 rather than 405, so probing with unsupported methods
// does not reveal which routes exist.
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !routeHandlesMethod(router, r.URL.Path, r.Method) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		router.ServeHTTP(w, r)
	}
}

// routeHandlesMethod reports whether a route with exactly the given pattern
// is registered with a handler for the given method. Parameterised segments
// are not expanded; chi has already matched the path by the time the
// MethodNotAllowed handler runs.
func routeHandlesMethod(router *chi.Mux, path, method string) bool {
	for _, route := range router.Routes() {
		if route.Pattern != path {
			continue
		}
		_, ok := route.Handlers[method]
		return ok
	}

	return false
}
