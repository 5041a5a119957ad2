package middleware

import "net/http"

// DefaultMaxBodyBytes caps request bodies when MaxBodySize gets a
// non-positive limit.
const DefaultMaxBodyBytes int64 = 1 << 20

// MaxBodySize limits request bodies with http.MaxBytesReader. Handlers see a
// *http.MaxBytesError when they read past the limit.
func MaxBodySize(limit int64) Middleware {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
