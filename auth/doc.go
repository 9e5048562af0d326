// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and session token utilities.

# Passwords

Passwords are hashed with bcrypt at the default cost:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(hash, password)

Only the hash is stored; CheckPassword runs the constant-time bcrypt
comparison.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

Tokens are URL-safe base64 encoded without padding. The server stores them
in the sessions table with an expiry; clients send them back as a bearer
Authorization header.

# Bearer Extraction

BearerToken pulls the token out of a request:

	token, err := auth.BearerToken(r)

It returns ErrNoBearerToken when the Authorization header is missing or is
not of the form "Bearer <token>".
*/
package auth
