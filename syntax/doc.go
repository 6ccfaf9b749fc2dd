// Package syntax provides string types for atproto account identifiers.
//
// These are simple string alias types which parse and verify the
// protocol-level grammar of handles and DIDs. They do not do resolution or
// any network requests; see the identity package for that.
package syntax
