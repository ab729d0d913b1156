// Package history records and lists a user's practice entries.
package history

import (
	"context"

	"github.com/speakhelper/speakhelper/internal/metrics"
	"github.com/speakhelper/speakhelper/internal/model"
)

// List limits.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Store is the datastore capability the service needs. Both the Supabase REST
// client and the Postgres repository implement it.
type Store interface {
	InsertPracticeEntry(ctx context.Context, entry *model.PracticeEntry) (*model.PracticeEntry, error)
	ListPracticeEntries(ctx context.Context, userID string, limit int) ([]*model.PracticeEntry, error)
}

// Service writes practice entries on behalf of authenticated users.
type Service struct {
	store   Store
	metrics metrics.Recorder
}

// NewService creates a new Service.
func NewService(store Store, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Service{store: store, metrics: recorder}
}

// RecordEntry stores {user.ID, prompt, response} with a single insert and
// returns the row the datastore echoed back.
func (s *Service) RecordEntry(ctx context.Context, user *model.AuthenticatedUser, prompt, response string) (*model.PracticeEntry, error) {
	if user == nil || user.ID == "" {
		return nil, ErrMissingUser
	}

	stored, err := s.store.InsertPracticeEntry(ctx, model.NewPracticeEntry(user.ID, prompt, response))
	if err != nil {
		s.metrics.IncHistoryWrite(metrics.StatusFailed)
		return nil, persistenceError(err)
	}

	s.metrics.IncHistoryWrite(metrics.StatusSuccess)
	return stored, nil
}

// ListEntries returns the caller's entries, newest first. limit is clamped
// to [1, MaxListLimit]; zero or negative means DefaultListLimit.
func (s *Service) ListEntries(ctx context.Context, user *model.AuthenticatedUser, limit int) ([]*model.PracticeEntry, error) {
	if user == nil || user.ID == "" {
		return nil, ErrMissingUser
	}

	entries, err := s.store.ListPracticeEntries(ctx, user.ID, ClampLimit(limit))
	if err != nil {
		return nil, persistenceError(err)
	}
	return entries, nil
}

// ClampLimit normalizes a requested page size.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
