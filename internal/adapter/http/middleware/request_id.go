package middleware

import (
	"net/http"

	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an ID for log correlation. An incoming
// X-Request-Id is trusted; otherwise a new one is generated.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			if generated, err := uuid.New(); err == nil {
				id = generated.String()
			}
		}

		w.Header().Set(requestIDHeader, id)

		ctx := wrap.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
