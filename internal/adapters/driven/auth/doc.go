// Package auth implements the Authorizer port and bearer token handling.
//
// Tokens are HS256 JWTs. The email claim becomes the principal's email and
// the subject claim its subject. The capability gate is a single
// administrator email that may import documents.
package auth
