package middleware

import (
	"net/http"

	"github.com/argvision/argvision-backend/api/responses"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/logger"
)

// RequireStaff rejects callers without staff privileges.
func RequireStaff(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ActorFromContext(r.Context()).Staff {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "staff privileges required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
