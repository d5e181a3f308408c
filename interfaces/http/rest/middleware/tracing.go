package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"triforge-backend/pkg/observability"
)

// Tracing opens a trace segment per request. Segments are named after the
// method and path so generation endpoints can be told apart in the console.
func Tracing(tracer *observability.Tracer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tracer == nil || !tracer.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			ctx, done := tracer.StartRequest(r.Context(), r.Method+" "+r.URL.Path)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			var err error
			if ww.Status() >= http.StatusInternalServerError {
				err = fmt.Errorf("request failed with status %d", ww.Status())
			}
			done(err)
		})
	}
}
