// Package common contains shared constants, error kinds and small helpers
// used across ContactKeeper components.
package common

// AuthorizationHeaderName is the HTTP header that carries the bearer token.
const AuthorizationHeaderName = "Authorization"

// AuthScheme is the only scheme accepted in the Authorization header.
const AuthScheme = "Bearer"
