package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/davidbz/pricematrix/internal/observability"
)

// Recover turns a handler panic into a 500 response and an error log line.
// http.ErrAbortHandler is re-raised so the server can drop the connection.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				observability.FromContext(r.Context()).Error("handler panicked",
					observability.String("method", r.Method),
					observability.String("path", r.URL.Path),
					observability.String("panic", fmt.Sprint(rec)))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal server error"}` + "\n"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
