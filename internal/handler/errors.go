package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/speakhelper/speakhelper/internal/auth"
	"github.com/speakhelper/speakhelper/internal/history"
	"github.com/speakhelper/speakhelper/internal/middleware"
	"github.com/speakhelper/speakhelper/internal/relay"
)

// writeServiceError is the single place where error kinds become HTTP
// statuses. Authentication failures are 401; everything else is 500 with
// the error message passed through as the detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, err error) {
	if auth.IsAuthError(err) {
		writeDetail(w, http.StatusUnauthorized, auth.Message(err))
		return
	}

	logger.Error(op+" failed",
		slog.String("error", err.Error()),
		slog.String("kind", errorKind(err)),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	writeDetail(w, http.StatusInternalServerError, err.Error())
}

// errorKind labels an error for logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, relay.ErrMalformedModelOutput):
		return "malformed_model_output"
	case errors.Is(err, relay.ErrExternalAPI):
		return "external_api"
	case errors.Is(err, history.ErrPersistence):
		return "persistence"
	case errors.Is(err, history.ErrMissingUser):
		return "missing_user"
	default:
		return "internal"
	}
}
