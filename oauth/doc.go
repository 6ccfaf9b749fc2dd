// Package oauth implements the client-side bootstrap of the atproto OAuth
// login flow.
//
// Starting from an account identifier (handle or DID), [ClientApp.StartAuthFlow]
// resolves the account's PDS, discovers the authorization server behind it,
// generates PKCE and state secrets, submits a Pushed Authorization Request
// (PAR), and returns a browser-ready authorization URL.
//
// The flow is strictly sequential and fail-fast: the first step that fails
// aborts the whole login attempt. Failures are classified with the sentinel
// errors in the identity package.
//
// Discovered URLs (PDS hosts, authorization servers, PAR endpoints) are
// checked with [identity.SafeURL] before any request goes out: HTTPS only,
// no loopback, private, or internal targets.
//
// This package stops at the authorization URL. The callback leg, token
// exchange, refresh, and session persistence are out of scope; callers must
// retain the returned PKCE verifier and state themselves to complete the
// flow.
package oauth
