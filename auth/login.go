package auth

import (
	"context"
	"errors"
)

type (
	// LoginInput carries the untrusted login form fields.
	LoginInput struct {
		Username string
		Password string
	}
)

func (in LoginInput) validate() error {
	if in.Username == "" || in.Password == "" {
		return ErrMissingFields
	}
	return nil
}

// Login verifies a credential and establishes a session. An unknown
// username and a wrong password both come back as ErrInvalidCredentials.
func Login(ctx context.Context, users *Users, tokens TokenStore, in LoginInput) (string, Identity, error) {
	if err := in.validate(); err != nil {
		return "", Identity{}, err
	}
	user, err := users.FindByUsername(ctx, in.Username)
	var notFound UserNotFound
	if errors.As(err, &notFound) {
		return "", Identity{}, ErrInvalidCredentials
	} else if err != nil {
		return "", Identity{}, err
	}
	if !VerifyPassword(user.PasswordHash, in.Password) {
		return "", Identity{}, ErrInvalidCredentials
	}
	who := Identity{UserID: user.ID, Username: user.Username}
	token, err := tokens.Mint(ctx, who)
	if err != nil {
		return "", Identity{}, err
	}
	return token, who, nil
}
