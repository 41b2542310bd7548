package middleware

import (
	"fmt"
	"net/http"
)

// Recover converts a handler panic into a 500 response instead of killing
// the whole server. The connection is closed so clients do not reuse it.
func (a *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				a.log.Error(r.Context(), "recovered from panic", fmt.Errorf("%v", p), "path", r.URL.Path)
				w.Header().Set("Connection", "close")
				errorResponse(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
