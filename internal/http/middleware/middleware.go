package middleware

import (
	"net/http"
	"slices"

	"github.com/davidbz/pricematrix/internal/config"
)

// Middleware decorates a handler.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares so that the first one sees the request first.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for _, m := range slices.Backward(middlewares) {
			final = m(final)
		}
		return final
	}
}

// BuildMiddlewareChain returns the API chain: CORS, then Trace so every
// request carries an ID, then Recover so a panicking handler is answered
// with a logged 500 tagged with that ID.
func BuildMiddlewareChain(corsConfig *config.CORSConfig) Middleware {
	return Chain(
		CORS(corsConfig),
		Trace(),
		Recover(),
	)
}
