// Package api resolves inbound requests to an identity. It is the only
// place that reads or writes the session cookie.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/nhihnguyen/to-do-calendar/auth"
	"github.com/nhihnguyen/to-do-calendar/internal/logutil"
)

type (
	// SecurityRealm attaches identities to requests and manages the
	// session cookie that carries the token.
	SecurityRealm struct {
		tokens         auth.TokenStore
		ttl            time.Duration
		insecureCookie bool
	}

	ctxKey byte
)

// CookieName carries the opaque token value verbatim.
const CookieName = "authToken"

const identityKey = ctxKey(1)

func NewRealm(tokens auth.TokenStore, ttl time.Duration, allowHTTPCookie bool) *SecurityRealm {
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}
	return &SecurityRealm{
		tokens:         tokens,
		ttl:            ttl,
		insecureCookie: allowHTTPCookie,
	}
}

func withIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity the resolver attached to the
// request, if any.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return auth.Identity{}, false
	}
	return v.(auth.Identity), true
}

// Attach resolves the session cookie on every request and stores the
// identity in the request context. Resolution fails open: a missing,
// unknown or expired token downgrades the request to anonymous instead
// of blocking it, downstream handlers decide whether that is acceptable.
func (s *SecurityRealm) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := s.resolve(r); ok {
			r = r.WithContext(withIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// Protect guards routes that must not run anonymously. It expects to sit
// below Attach.
func (s *SecurityRealm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		sensitive.ServeHTTP(w, r)
	})
}

func (s *SecurityRealm) resolve(r *http.Request) (auth.Identity, bool) {
	ctx := r.Context()
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return auth.Identity{}, false
	}
	id, found, err := s.tokens.Resolve(ctx, cookie.Value)
	if err != nil {
		// fail open to anonymous, the token store misbehaving must not
		// take the whole site down
		logger := logutil.GetOrDefault(ctx)
		logger.Error().Err(err).Msg("Unexpected error resolving session token")
		return auth.Identity{}, false
	}
	return id, found
}

// SetSession hands the minted token to the client.
func (s *SecurityRealm) SetSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !s.insecureCookie,
	})
}

// Logout revokes the server-side token (if the request carries one) and
// clears the cookie. Calling it without an active session is a no-op.
func (s *SecurityRealm) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		if err := s.tokens.Revoke(ctx, cookie.Value); err != nil {
			logger := logutil.GetOrDefault(ctx)
			logger.Error().Err(err).Msg("Unexpected error revoking session token")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !s.insecureCookie,
	})
}
