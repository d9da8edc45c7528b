package gestor

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/dracory/gestor/shared/logging"
	"github.com/dracory/gestor/shared/types"
	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"
)

// CSRFHeader carries the CSRF token to API clients and back.
const CSRFHeader = "X-CSRF-Token"

// RequestLogger adds a request id to the context and logs basic request info.
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := logging.NewRequestID()
			ctx := logging.WithRequestID(r.Context(), reqID)

			ww := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			ww.Header().Set("X-Request-Id", reqID)
			next.ServeHTTP(ww, r.WithContext(ctx))

			log.WithFields(logrus.Fields{
				"request_id": reqID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.status,
				"remote":     r.RemoteAddr,
				"duration":   time.Since(start).String(),
			}).Info("http_request")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// SecurityHeaders sets the response headers every page and API answer carries.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline' cdn.jsdelivr.net unpkg.com; style-src 'self' 'unsafe-inline' cdn.jsdelivr.net unpkg.com; img-src 'self' data:;")

		next.ServeHTTP(w, r)
	})
}

// CSRFProtect rejects unsafe requests that do not echo the CSRF token. The
// token is handed out in the X-CSRF-Token response header and in a hidden
// field of every page form.
func CSRFProtect(cfg types.Config) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte(cfg.SessionSecret))
	protect := csrf.Protect(key[:],
		csrf.Secure(cfg.SecureCookies),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.RequestHeader(CSRFHeader),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reason := "forbidden"
			if err := csrf.FailureReason(r); err != nil {
				reason = err.Error()
			}
			WriteForbidden(w, r, "invalid CSRF token: "+reason)
		})),
	)

	return func(next http.Handler) http.Handler {
		exposeToken := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(CSRFHeader, csrf.Token(r))
			next.ServeHTTP(w, r)
		})
		inner := protect(exposeToken)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil && !cfg.SecureCookies {
				r = csrf.PlaintextHTTPRequest(r)
			}
			inner.ServeHTTP(w, r)
		})
	}
}
