package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/speakhelper/speakhelper/internal/auth"
	"github.com/speakhelper/speakhelper/internal/metrics"
	"github.com/speakhelper/speakhelper/internal/model"
)

// Authenticator resolves an Authorization header value to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*model.AuthenticatedUser, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger        *slog.Logger
	Authenticator Authenticator
	Metrics       metrics.Recorder
}

// RequireUser returns a middleware that authenticates the bearer token in the
// Authorization header. On success the user and token are added to the request
// context; on failure the request ends with 401 and next is never called.
func RequireUser(cfg AuthConfig) func(http.Handler) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			user, err := cfg.Authenticator.Authenticate(r.Context(), header)
			if err != nil {
				reason := auth.Reason(err)
				cfg.Metrics.IncAuthFailure(reason)

				attrs := []any{
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				}
				var verr *auth.VerificationError
				if errors.As(err, &verr) {
					cfg.Logger.Error("authentication failed", append(attrs, slog.String("error", verr.Err.Error()))...)
				} else {
					cfg.Logger.Warn("authentication failed", attrs...)
				}

				writeAuthError(w, auth.Message(err))
				return
			}

			cfg.Logger.Debug("authentication successful",
				slog.String("user_id", user.ID),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			// The gate has already validated the header shape.
			token, _ := auth.ParseBearer(header)

			ctx := auth.ContextWithUser(r.Context(), user)
			ctx = auth.ContextWithAccessToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError writes a 401 Unauthorized response with a detail message.
func writeAuthError(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
