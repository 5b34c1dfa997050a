package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/boq-builder/api/responses"
	pkgerrors "github.com/angelmondragon/boq-builder/pkg/errors"
	"github.com/angelmondragon/boq-builder/pkg/logger"
)

// Recoverer turns a handler panic into an internal error response.
// http.ErrAbortHandler is re-raised so the server aborts the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{"panic": fmt.Sprint(rec)})
					logg.Error(ctx, "panic.recovered", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
