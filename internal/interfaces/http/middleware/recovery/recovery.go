package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/ifat-github/casting-agency/internal/interfaces/http/errors"
	"go.uber.org/zap"
)

// Recoverer turns a handler panic into a JSON 500 and logs the stack
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					// net/http uses this to abort the response silently
					panic(rec)
				}

				logger.Error("Recovered from panic",
					zap.Any("panic", rec),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()))

				if r.Header.Get("Connection") != "Upgrade" {
					errors.RespondWithError(w, http.StatusInternalServerError, errors.MessageInternal, nil)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
