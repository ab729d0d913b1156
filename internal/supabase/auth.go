package supabase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/speakhelper/speakhelper/internal/model"
)

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// VerifyToken resolves a user access token through GET /auth/v1/user.
// A token the identity service rejects yields (nil, nil); transport failures
// and unexpected statuses yield an error.
func (c *Client) VerifyToken(ctx context.Context, token string) (*model.AuthenticatedUser, error) {
	var out userResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		SetError(&errorBody{}).
		Get(c.baseURL + authUserPath)
	if err != nil {
		return nil, fmt.Errorf("supabase get user: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusUnprocessableEntity:
		return nil, nil
	default:
		return nil, apiError("supabase get user", resp)
	}

	if out.ID == "" {
		return nil, nil
	}

	return &model.AuthenticatedUser{
		ID:    out.ID,
		Email: out.Email,
		Role:  out.Role,
	}, nil
}
