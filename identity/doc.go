// Package identity resolves atproto account identifiers to DIDs, and DIDs
// to DID documents and PDS endpoints.
//
// Resolution is a chain of simple HTTP lookups: a handle resolves to a DID
// via the XRPC resolveHandle route on the handle's domain, and a DID
// resolves to a DID document via the PLC directory. Each step either
// succeeds or fails as a whole; there are no retries.
//
// Failures are classified with the sentinel errors in this package
// (validation, not-found, transport, protocol, malformed-response), wrapped
// so callers can distinguish them with [errors.Is].
package identity
