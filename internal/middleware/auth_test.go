package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/speakhelper/speakhelper/internal/auth"
	"github.com/speakhelper/speakhelper/internal/metrics"
	"github.com/speakhelper/speakhelper/internal/model"
)

type stubVerifier struct {
	user *model.AuthenticatedUser
	err  error
}

func (s stubVerifier) VerifyToken(ctx context.Context, token string) (*model.AuthenticatedUser, error) {
	return s.user, s.err
}

func newAuthTestHandler(t *testing.T, v auth.TokenVerifier, rec metrics.Recorder, logs io.Writer) (http.Handler, *int) {
	t.Helper()

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		user := auth.UserFromContext(r.Context())
		if user == nil {
			t.Error("expected user in context")
			return
		}
		_, _ = w.Write([]byte(user.ID + "|" + auth.AccessTokenFromContext(r.Context())))
	})

	mw := RequireUser(AuthConfig{
		Logger:        slog.New(slog.NewJSONHandler(logs, nil)),
		Authenticator: auth.NewGate(v),
		Metrics:       rec,
	})
	return mw(next), &calls
}

func TestRequireUser_Success(t *testing.T) {
	t.Parallel()

	handler, calls := newAuthTestHandler(t,
		stubVerifier{user: &model.AuthenticatedUser{ID: "user-1"}}, nil, io.Discard)

	req := httptest.NewRequest(http.MethodPost, "/practice-history", nil)
	req.Header.Set("Authorization", "Bearer tok-abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *calls != 1 {
		t.Errorf("next called %d times", *calls)
	}
	if rec.Body.String() != "user-1|tok-abc" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRequireUser_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		verifier   stubVerifier
		wantDetail string
		wantReason string
	}{
		{
			name:       "missing header",
			header:     "",
			verifier:   stubVerifier{user: &model.AuthenticatedUser{ID: "u"}},
			wantDetail: "Missing auth header",
			wantReason: "missing_header",
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			verifier:   stubVerifier{user: &model.AuthenticatedUser{ID: "u"}},
			wantDetail: "Invalid auth header format",
			wantReason: "malformed_header",
		},
		{
			name:       "unknown token",
			header:     "Bearer nope",
			verifier:   stubVerifier{},
			wantDetail: "Invalid or expired token",
			wantReason: "invalid_token",
		},
		{
			name:       "identity service down",
			header:     "Bearer tok",
			verifier:   stubVerifier{err: errors.New("connection refused")},
			wantDetail: "Invalid or expired token",
			wantReason: "invalid_token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := metrics.NewInMemory()
			handler, calls := newAuthTestHandler(t, tt.verifier, rec, io.Discard)

			req := httptest.NewRequest(http.MethodPost, "/practice-history", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			if *calls != 0 {
				t.Errorf("next handler called %d times, want 0", *calls)
			}
			if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
				t.Errorf("WWW-Authenticate = %q", got)
			}

			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["detail"] != tt.wantDetail {
				t.Errorf("detail = %q, want %q", body["detail"], tt.wantDetail)
			}
			if got := rec.Snapshot().AuthFailures[tt.wantReason]; got != 1 {
				t.Errorf("auth failures[%s] = %d, want 1", tt.wantReason, got)
			}
		})
	}
}

func TestRequireUser_LogsVerifierCauseNotToken(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	handler, _ := newAuthTestHandler(t, stubVerifier{err: errors.New("dial tcp 10.0.0.1:443: timeout")}, nil, &logs)

	req := httptest.NewRequest(http.MethodPost, "/practice-history", nil)
	req.Header.Set("Authorization", "Bearer super-secret-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := logs.String()
	if !strings.Contains(out, `"level":"ERROR"`) || !strings.Contains(out, "dial tcp") {
		t.Errorf("expected error log with cause, got %s", out)
	}
	if strings.Contains(out, "super-secret-token") {
		t.Error("token leaked into logs")
	}
}
