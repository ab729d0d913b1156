package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/speakhelper/speakhelper/internal/auth"
	"github.com/speakhelper/speakhelper/internal/model"
)

// PracticeHistoryTable is the PostgREST table holding practice entries.
const PracticeHistoryTable = "practice_history"

// ErrEmptyRepresentation is returned when an insert succeeds at the HTTP level
// but the datastore echoes no row back.
var ErrEmptyRepresentation = errors.New("datastore returned no inserted row")

type practiceInsert struct {
	UserID   string `json:"user_id"`
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

type practiceRow struct {
	ID        json.RawMessage `json:"id"`
	UserID    string          `json:"user_id"`
	Prompt    string          `json:"prompt"`
	Response  string          `json:"response"`
	CreatedAt string          `json:"created_at"`
}

// bearerFor picks the token the REST call runs as. With a caller token the
// request runs under the caller's row-level security policies.
func (c *Client) bearerFor(ctx context.Context) string {
	if token := auth.AccessTokenFromContext(ctx); token != "" {
		return token
	}
	return c.serviceKey
}

// InsertPracticeEntry inserts entry into practice_history and returns the row
// as stored. Any non-2xx status or an empty echo is a failure.
func (c *Client) InsertPracticeEntry(ctx context.Context, entry *model.PracticeEntry) (*model.PracticeEntry, error) {
	var rows []practiceRow
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.bearerFor(ctx)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation").
		SetBody(practiceInsert{
			UserID:   entry.UserID,
			Prompt:   entry.Prompt,
			Response: entry.Response,
		}).
		SetResult(&rows).
		SetError(&errorBody{}).
		Post(c.restURL(PracticeHistoryTable))
	if err != nil {
		return nil, fmt.Errorf("insert practice entry: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, apiError("insert practice entry", resp)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyRepresentation
	}

	return rows[0].toModel(), nil
}

// ListPracticeEntries returns up to limit entries for userID, newest first.
func (c *Client) ListPracticeEntries(ctx context.Context, userID string, limit int) ([]*model.PracticeEntry, error) {
	var rows []practiceRow
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.bearerFor(ctx)).
		SetQueryParam("select", "*").
		SetQueryParam("user_id", "eq."+userID).
		SetQueryParam("order", "created_at.desc").
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&rows).
		SetError(&errorBody{}).
		Get(c.restURL(PracticeHistoryTable))
	if err != nil {
		return nil, fmt.Errorf("list practice entries: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, apiError("list practice entries", resp)
	}

	entries := make([]*model.PracticeEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toModel())
	}
	return entries, nil
}

func (r practiceRow) toModel() *model.PracticeEntry {
	return &model.PracticeEntry{
		ID:        rawID(r.ID),
		UserID:    r.UserID,
		Prompt:    r.Prompt,
		Response:  r.Response,
		CreatedAt: parseTimestamp(r.CreatedAt),
	}
}

// rawID renders a numeric or string id as a plain string.
func rawID(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	return s
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp accepts timestamptz and timestamp renderings from PostgREST.
// Missing or unparseable values yield nil.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
