//go:build integration

package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/speakhelper/speakhelper/internal/testutil"
)

const authenticatedRole = "authenticated"

func newPracticeTestEnv(t *testing.T, opts ...Option) (context.Context, *Repository) {
	t.Helper()

	dbURL := testutil.RequireEnv(t, "DATABASE_URL")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	repo, err := New(ctx, dbURL, opts...)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.pool)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	t.Cleanup(func() { _ = unlock() })

	if err := testutil.InstallSupabaseAuthShim(ctx, repo.pool); err != nil {
		t.Fatalf("auth shim: %v", err)
	}
	if err := testutil.ResetPracticeHistorySchema(ctx, repo.pool); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, repo
}

func TestIntegrationPracticeHistory_InsertEchoesRow(t *testing.T) {
	ctx, repo := newPracticeTestEnv(t)

	user := testutil.NewTestUser(t)
	entry := testutil.NewTestPracticeEntry(t, user.ID, "order coffee")

	stored, err := repo.InsertPracticeEntry(ctx, entry)
	if err != nil {
		t.Fatalf("InsertPracticeEntry failed: %v", err)
	}

	if stored.ID == "" {
		t.Error("ID should be assigned by the database")
	}
	if stored.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", stored.UserID, user.ID)
	}
	if stored.Prompt != entry.Prompt || stored.Response != entry.Response {
		t.Errorf("stored = %+v, want prompt/response of %+v", stored, entry)
	}
	if stored.CreatedAt == nil || stored.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestIntegrationPracticeHistory_ListScopedToUser(t *testing.T) {
	ctx, repo := newPracticeTestEnv(t)

	alice := testutil.NewTestUser(t)
	bob := testutil.NewTestUser(t)

	for _, prompt := range []string{"first", "second", "third"} {
		if _, err := repo.InsertPracticeEntry(ctx, testutil.NewTestPracticeEntry(t, alice.ID, prompt)); err != nil {
			t.Fatalf("insert %s: %v", prompt, err)
		}
	}
	if _, err := repo.InsertPracticeEntry(ctx, testutil.NewTestPracticeEntry(t, bob.ID, "bob's")); err != nil {
		t.Fatalf("insert bob: %v", err)
	}

	entries, err := repo.ListPracticeEntries(ctx, alice.ID, 2)
	if err != nil {
		t.Fatalf("ListPracticeEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.UserID != alice.ID {
			t.Errorf("entry %s belongs to %s, want %s", e.ID, e.UserID, alice.ID)
		}
	}
	if entries[0].CreatedAt.Before(*entries[1].CreatedAt) {
		t.Error("entries should be newest first")
	}
}

func TestIntegrationPracticeHistory_RequiresUser(t *testing.T) {
	ctx, repo := newPracticeTestEnv(t)

	_, err := repo.InsertPracticeEntry(ctx, testutil.NewTestPracticeEntry(t, "", "x"))
	if !errors.Is(err, ErrMissingUserID) {
		t.Errorf("err = %v, want ErrMissingUserID", err)
	}

	_, err = repo.InsertPracticeEntry(ctx, testutil.NewTestPracticeEntry(t, "not-a-uuid", "x"))
	if err == nil {
		t.Error("expected datastore error for malformed user id")
	}
}

func TestIntegrationPracticeHistory_AuthenticatedRoleWritesOwnRows(t *testing.T) {
	ctx, repo := newPracticeTestEnv(t, WithUserRole(authenticatedRole))

	user := testutil.NewTestUser(t)
	entry := testutil.NewTestPracticeEntry(t, user.ID, "introduce yourself")

	stored, err := repo.InsertPracticeEntry(ctx, entry)
	if err != nil {
		t.Fatalf("InsertPracticeEntry as %s failed: %v", authenticatedRole, err)
	}
	if stored.UserID != user.ID || stored.Prompt != entry.Prompt {
		t.Errorf("stored = %+v, want row for %s", stored, user.ID)
	}

	entries, err := repo.ListPracticeEntries(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("ListPracticeEntries as %s failed: %v", authenticatedRole, err)
	}
	if len(entries) != 1 || entries[0].ID != stored.ID {
		t.Errorf("entries = %+v, want the inserted row", entries)
	}
}

func TestIntegrationPracticeHistory_PoliciesRejectOtherUsers(t *testing.T) {
	ctx, repo := newPracticeTestEnv(t)

	alice := testutil.NewTestUser(t)
	bob := testutil.NewTestUser(t)

	if _, err := repo.InsertPracticeEntry(ctx, testutil.NewTestPracticeEntry(t, bob.ID, "bob's")); err != nil {
		t.Fatalf("insert bob as owner: %v", err)
	}

	claims, err := userClaims(alice.ID, authenticatedRole)
	if err != nil {
		t.Fatalf("claims: %v", err)
	}

	asAlice := func(t *testing.T, fn func(tx pgx.Tx) error) error {
		t.Helper()
		tx, err := repo.pool.Begin(ctx)
		if err != nil {
			t.Fatalf("begin: %v", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if _, err := tx.Exec(ctx, "SELECT set_config('request.jwt.claims', $1, true)", claims); err != nil {
			t.Fatalf("set claims: %v", err)
		}
		if _, err := tx.Exec(ctx, "SET LOCAL ROLE "+authenticatedRole); err != nil {
			t.Fatalf("set role: %v", err)
		}
		return fn(tx)
	}

	t.Run("insert for another user", func(t *testing.T) {
		err := asAlice(t, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx,
				"INSERT INTO practice_history (user_id, prompt, response) VALUES ($1, 'x', 'y')", bob.ID)
			return err
		})
		if err == nil || !strings.Contains(pgMessage(err), "row-level security") {
			t.Errorf("err = %v, want row-level security violation", err)
		}
	})

	t.Run("insert for self", func(t *testing.T) {
		err := asAlice(t, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx,
				"INSERT INTO practice_history (user_id, prompt, response) VALUES ($1, 'x', 'y')", alice.ID)
			return err
		})
		if err != nil {
			t.Errorf("own insert rejected: %v", err)
		}
	})

	t.Run("select hides other users", func(t *testing.T) {
		var visible int
		err := asAlice(t, func(tx pgx.Tx) error {
			return tx.QueryRow(ctx, "SELECT count(*) FROM practice_history").Scan(&visible)
		})
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if visible != 0 {
			t.Errorf("alice sees %d rows, want 0", visible)
		}
	})
}
