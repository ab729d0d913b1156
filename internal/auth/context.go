package auth

import (
	"context"

	"github.com/speakhelper/speakhelper/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userContextKey is the context key for storing the authenticated user.
	userContextKey contextKey = "auth_user"
)

// ContextWithUser adds the authenticated user to the context.
func ContextWithUser(ctx context.Context, user *model.AuthenticatedUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user from the context.
// Returns nil if not present.
func UserFromContext(ctx context.Context) *model.AuthenticatedUser {
	user, ok := ctx.Value(userContextKey).(*model.AuthenticatedUser)
	if !ok {
		return nil
	}
	return user
}

// UserIDFromContext is a convenience function to get the user ID from context.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	user := UserFromContext(ctx)
	if user == nil {
		return ""
	}
	return user.ID
}

const (
	// tokenContextKey is the context key for the caller's verified access token.
	tokenContextKey contextKey = "auth_token"
)

// ContextWithAccessToken stores the caller's verified access token so that
// downstream datastore calls can act with the caller's identity.
func ContextWithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// AccessTokenFromContext returns the caller's access token, or "" if none.
func AccessTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
