package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/nhihnguyen/to-do-calendar/internal/testutil"
	"github.com/nhihnguyen/to-do-calendar/store"
)

func countRows(ctx context.Context, t *testing.T, st *store.Store, table string) int {
	t.Helper()
	var count int
	err := st.DB().QueryRowContext(ctx, `select count(*) from `+table).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	return count
}

func TestRegisterEstablishesSession(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()
	users, tokens := NewUsers(st), NewTokenStore(st, DefaultTokenTTL)
	token, who, err := Register(ctx, users, tokens, RegisterInput{Username: "alice", Password: "p1", ConfirmPassword: "p1"})
	if err != nil {
		t.Fatal(err)
	}
	if token == "" || who.Username != "alice" || who.UserID == 0 {
		t.Fatalf("unexpected session: token=%q who=%+v", token, who)
	}
	if got := countRows(ctx, t, st, "users"); got != 1 {
		t.Fatalf("expected 1 users row, got %v", got)
	}
	if got := countRows(ctx, t, st, "authtokens"); got != 1 {
		t.Fatalf("expected 1 authtokens row, got %v", got)
	}
	resolved, found, err := tokens.Resolve(ctx, token)
	if err != nil || !found {
		t.Fatalf("minted token should resolve, found=%v err=%v", found, err)
	}
	if resolved != who {
		t.Fatalf("token resolved to %+v, want %+v", resolved, who)
	}
}

func TestRegisterValidationOrder(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()
	users, tokens := NewUsers(st), NewTokenStore(st, DefaultTokenTTL)
	for _, in := range []RegisterInput{
		{},
		{Username: "alice"},
		{Username: "alice", Password: "p1"},
		// missing fields wins over the mismatch check
		{Username: "alice", ConfirmPassword: "p2"},
	} {
		_, _, err := Register(ctx, users, tokens, in)
		if !errors.Is(err, ErrMissingFields) {
			t.Fatalf("input %+v: expected ErrMissingFields, got %v", in, err)
		}
	}
	_, _, err := Register(ctx, users, tokens, RegisterInput{Username: "alice", Password: "p1", ConfirmPassword: "p2"})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if got := countRows(ctx, t, st, "users"); got != 0 {
		t.Fatalf("validation failures must not create rows, got %v", got)
	}
	if got := countRows(ctx, t, st, "authtokens"); got != 0 {
		t.Fatalf("validation failures must not mint tokens, got %v", got)
	}
}

func TestRegisterTakenUsername(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()
	users, tokens := NewUsers(st), NewTokenStore(st, DefaultTokenTTL)
	if _, _, err := Register(ctx, users, tokens, RegisterInput{Username: "alice", Password: "p1", ConfirmPassword: "p1"}); err != nil {
		t.Fatal(err)
	}
	_, _, err := Register(ctx, users, tokens, RegisterInput{Username: "alice", Password: "p2", ConfirmPassword: "p2"})
	var conflict ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if got := countRows(ctx, t, st, "users"); got != 1 {
		t.Fatalf("exactly one users row should exist, got %v", got)
	}
}

func TestConcurrentRegistrationHasOneWinner(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()
	users, tokens := NewUsers(st), NewTokenStore(st, DefaultTokenTTL)
	const attempts = 4
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, _, err := Register(ctx, users, tokens, RegisterInput{Username: "alice", Password: "p1", ConfirmPassword: "p1"})
			errs <- err
		}()
	}
	var won int
	for i := 0; i < attempts; i++ {
		err := <-errs
		if err == nil {
			won++
			continue
		}
		var conflict ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("loser should see ConflictError, got %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one winner, got %v", won)
	}
	if got := countRows(ctx, t, st, "users"); got != 1 {
		t.Fatalf("expected exactly one users row, got %v", got)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()
	users, tokens := NewUsers(st), NewTokenStore(st, DefaultTokenTTL)
	if _, _, err := Register(ctx, users, tokens, RegisterInput{Username: "alice", Password: "hunter2", ConfirmPassword: "hunter2"}); err != nil {
		t.Fatal(err)
	}
	stored, err := users.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if stored.PasswordHash == "hunter2" {
		t.Fatal("password stored in plain text")
	}
	if !VerifyPassword(stored.PasswordHash, "hunter2") {
		t.Fatal("stored hash should verify against the original password")
	}
	if VerifyPassword(stored.PasswordHash, "hunter3") {
		t.Fatal("stored hash should not verify against a different password")
	}
}
