package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"shinobi-rh/internal/auth"
	"shinobi-rh/internal/i18n"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware tags each request with an X-Request-ID and logs it once
// served.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s req=%s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond), reqID)
	})
}

// LocaleMiddleware stores the best supported Accept-Language in the context.
func LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if locale := i18n.MatchAcceptLanguage(r.Header.Get("Accept-Language")); locale != "" {
			r = r.WithContext(i18n.WithLocale(r.Context(), locale))
		}
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware allows the configured origins, or any origin when none is
// configured.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				for _, o := range origins {
					if origin == o {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						w.Header().Set("Vary", "Origin")
						break
					}
				}
			}
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept-Language")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticator verifies bearer tokens and enforces roles.
type Authenticator struct {
	secret string
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: secret}
}

// Require wraps next so that it only runs for a valid token carrying one of
// roles (any role when none are given).
func (a *Authenticator) Require(next http.HandlerFunc, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeMessage(w, r, http.StatusUnauthorized, "auth.err.missing", nil)
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			writeMessage(w, r, http.StatusUnauthorized, "auth.err.invalid", nil)
			return
		}

		claims, err := auth.ParseToken(strings.TrimSpace(token), a.secret)
		if err != nil {
			writeMessage(w, r, http.StatusUnauthorized, "auth.err.invalid", nil)
			return
		}
		if len(roles) > 0 && !claims.HasRole(roles...) {
			writeMessage(w, r, http.StatusForbidden, "attendance.err.forbidden", nil)
			return
		}

		next(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}
