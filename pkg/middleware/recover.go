package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/honeyshop/pkg/logger"
	"github.com/shashiranjanraj/honeyshop/pkg/metrics"
	"github.com/shashiranjanraj/honeyshop/pkg/response"
)

// Recovery turns a handler panic into the generic 500 envelope. The panic
// value and stack go to the request log only. http.ErrAbortHandler is
// re-raised so net/http can drop the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			route := metrics.RouteLabel(r)
			metrics.PanicsRecovered.WithLabelValues(route).Inc()
			logger.WithCtx(r.Context()).Error("panic recovered",
				"panic", fmt.Sprint(rec),
				"route", route,
				"method", r.Method,
				"stack", string(debug.Stack()),
			)
			response.InternalError(w)
		}()
		next.ServeHTTP(w, r)
	})
}
