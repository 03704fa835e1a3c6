package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/nhihnguyen/to-do-calendar/internal/testutil"
)

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()
	users, tokens := NewUsers(st), NewTokenStore(st, DefaultTokenTTL)
	_, registered, err := Register(ctx, users, tokens, RegisterInput{Username: "alice", Password: "p1", ConfirmPassword: "p1"})
	if err != nil {
		t.Fatal(err)
	}
	token, who, err := Login(ctx, users, tokens, LoginInput{Username: "alice", Password: "p1"})
	if err != nil {
		t.Fatal(err)
	}
	if who != registered {
		t.Fatalf("login resolved to %+v, want %+v", who, registered)
	}
	// each login mints its own token without touching earlier ones
	if got := countRows(ctx, t, st, "authtokens"); got != 2 {
		t.Fatalf("expected 2 authtokens rows, got %v", got)
	}
	_, found, err := tokens.Resolve(ctx, token)
	if err != nil || !found {
		t.Fatalf("login token should resolve, found=%v err=%v", found, err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()
	users, tokens := NewUsers(st), NewTokenStore(st, DefaultTokenTTL)
	if _, _, err := Register(ctx, users, tokens, RegisterInput{Username: "alice", Password: "p1", ConfirmPassword: "p1"}); err != nil {
		t.Fatal(err)
	}
	before := countRows(ctx, t, st, "authtokens")
	_, _, wrongPass := Login(ctx, users, tokens, LoginInput{Username: "alice", Password: "wrong"})
	_, _, unknownUser := Login(ctx, users, tokens, LoginInput{Username: "mallory", Password: "p1"})
	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPass.Error() != unknownUser.Error() {
		t.Fatalf("failure modes must be indistinguishable: %q vs %q", wrongPass, unknownUser)
	}
	// no token minted on failure
	if got := countRows(ctx, t, st, "authtokens"); got != before {
		t.Fatalf("failed logins minted tokens: %v -> %v", before, got)
	}
}

func TestLoginValidation(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()
	users, tokens := NewUsers(st), NewTokenStore(st, DefaultTokenTTL)
	for _, in := range []LoginInput{{}, {Username: "alice"}, {Password: "p1"}} {
		_, _, err := Login(ctx, users, tokens, in)
		if !errors.Is(err, ErrMissingFields) {
			t.Fatalf("input %+v: expected ErrMissingFields, got %v", in, err)
		}
	}
}
