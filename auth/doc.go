// Package auth implements the credential and session-token core of the
// to-do list: user records, password hashing, opaque session tokens and
// the registration/login flows that tie them together.
//
// Tokens are random opaque strings handed to the client verbatim (the
// web layer puts them in a cookie). The server keeps the authoritative
// copy in the authtokens table with an expiry timestamp; logout revokes
// the row, so a stolen cookie stops working once the owner logs out or
// the token ages out.
//
// Flow errors follow a small taxonomy: ValidationError for bad input,
// ConflictError for a taken username, ErrInvalidCredentials for a failed
// login. The last one is deliberately the same for an unknown username
// and a wrong password, so the login form cannot be used to enumerate
// accounts. Anything else is an unexpected store failure and should only
// ever reach the user as a generic message.
package auth
