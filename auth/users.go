package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/nhihnguyen/to-do-calendar/store"
)

type (
	User struct {
		ID           int64
		Username     string
		PasswordHash string
	}

	// Users is the credential store over the users table.
	Users struct {
		st *store.Store
	}

	UserNotFound struct {
		Username string
	}
)

func (u UserNotFound) Error() string {
	return fmt.Sprintf("user %v not found", u.Username)
}

func NewUsers(st *store.Store) *Users {
	return &Users{st: st}
}

// usernameHash64 feeds the indexed lookup column. Lookups always compare
// the full username as well, the hash only narrows the scan.
func usernameHash64(username string) int64 {
	return int64(xxhash.Sum64String(username))
}

// Create inserts a new credential record. The unique constraint on the
// username column is the authoritative duplicate check; a violation is
// surfaced as ConflictError.
func (u *Users) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := u.st.DB().ExecContext(ctx,
		`insert into users(username, username_hash64, password) values (?, ?, ?)`,
		username, usernameHash64(username), passwordHash)
	if store.IsConstraintViolation(err) {
		return 0, ConflictError{Username: username}
	} else if err != nil {
		return 0, fmt.Errorf("unable to create user %v, cause %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("unable to read id of user %v, cause %w", username, err)
	}
	return id, nil
}

func (u *Users) FindByUsername(ctx context.Context, username string) (User, error) {
	var out User
	err := u.st.DB().QueryRowContext(ctx,
		`select user_id, username, password from users where username_hash64 = ? and username = ?`,
		usernameHash64(username), username).Scan(&out.ID, &out.Username, &out.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, UserNotFound{Username: username}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to load user %v, cause %w", username, err)
	}
	return out, nil
}
