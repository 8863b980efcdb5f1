package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// Inbound ids are echoed into logs and headers, so only short tokens pass.
var requestIDRe = regexp.MustCompile(`^[A-Za-z0-9._-]{8,128}$`)

// RequestID reuses a well-formed X-Request-Id or mints one, echoes it on the
// response and seeds it into the log context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if !requestIDRe.MatchString(reqID) {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
