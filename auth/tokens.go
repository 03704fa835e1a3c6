package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nhihnguyen/to-do-calendar/store"
)

type (
	// Identity is the resolved (user, username) pair attached to a
	// request once its token checks out.
	Identity struct {
		UserID   int64
		Username string
	}

	TokenStore interface {
		// Mint issues a fresh opaque token for the given user and
		// persists it. Previous tokens stay valid until they expire or
		// are revoked.
		Mint(ctx context.Context, user Identity) (string, error)
		// Resolve maps a token back to its identity. An unknown or
		// expired token is not an error, it reports found=false.
		Resolve(ctx context.Context, token string) (Identity, bool, error)
		// Revoke drops the server-side record. Revoking an unknown
		// token is a no-op.
		Revoke(ctx context.Context, token string) error
	}

	sqlTokens struct {
		st  *store.Store
		ttl time.Duration
		now func() time.Time
	}
)

// DefaultTokenTTL keeps a session alive for a month of inactivity.
const DefaultTokenTTL = 30 * 24 * time.Hour

func NewTokenStore(st *store.Store, ttl time.Duration) TokenStore {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &sqlTokens{st: st, ttl: ttl, now: time.Now}
}

func (s *sqlTokens) Mint(ctx context.Context, user Identity) (string, error) {
	token := uuid.NewString()
	expiresAt := s.now().Add(s.ttl).Unix()
	_, err := s.st.DB().ExecContext(ctx,
		`insert into authtokens(token, user_id, expires_at) values (?, ?, ?)`,
		token, user.UserID, expiresAt)
	if err != nil {
		return "", fmt.Errorf("unable to mint token for user %v, cause %w", user.Username, err)
	}
	return token, nil
}

func (s *sqlTokens) Resolve(ctx context.Context, token string) (Identity, bool, error) {
	var out Identity
	err := s.st.DB().QueryRowContext(ctx,
		`select u.user_id, u.username
		from authtokens t
		inner join users u on u.user_id = t.user_id
		where t.token = ? and t.expires_at > ?`,
		token, s.now().Unix()).Scan(&out.UserID, &out.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, false, nil
	} else if err != nil {
		return Identity{}, false, fmt.Errorf("unable to resolve token, cause %w", err)
	}
	return out, true, nil
}

func (s *sqlTokens) Revoke(ctx context.Context, token string) error {
	_, err := s.st.DB().ExecContext(ctx, `delete from authtokens where token = ?`, token)
	if err != nil {
		return fmt.Errorf("unable to revoke token, cause %w", err)
	}
	return nil
}
