package auth

import (
	"context"
	"fmt"
)

type (
	// RegisterInput carries the untrusted registration form fields.
	RegisterInput struct {
		Username        string
		Password        string
		ConfirmPassword string
	}
)

func (in RegisterInput) validate() error {
	if in.Username == "" || in.Password == "" || in.ConfirmPassword == "" {
		return ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// Register creates a credential record and establishes a session for it.
//
// The user insert and the token insert are two independent statements.
// If the second one fails the new user simply has to log in, there is
// nothing to roll back.
func Register(ctx context.Context, users *Users, tokens TokenStore, in RegisterInput) (string, Identity, error) {
	if err := in.validate(); err != nil {
		return "", Identity{}, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return "", Identity{}, err
	}
	id, err := users.Create(ctx, in.Username, hash)
	if err != nil {
		return "", Identity{}, err
	}
	who := Identity{UserID: id, Username: in.Username}
	token, err := tokens.Mint(ctx, who)
	if err != nil {
		return "", Identity{}, fmt.Errorf("user %v created but session not established, cause %w", in.Username, err)
	}
	return token, who, nil
}
