package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/bluesky-social/atauthn/syntax"
)

// Directory is the lookup interface used by the OAuth login flow.
//
// Implementations do direct resolution ([Resolver]), or wrap another
// Directory with a cache ([CacheDirectory]).
type Directory interface {
	ResolveHandle(ctx context.Context, handle syntax.Handle) (syntax.DID, error)
	ResolveDID(ctx context.Context, did syntax.DID) (*DIDDocument, error)
}

// ResolveIdentity resolves a raw username string (handle or DID) to a DID.
//
// A string matching the DID grammar is returned unchanged, with no network
// request. A string matching the handle grammar is resolved through dir. A
// string matching neither grammar fails with [ErrInvalidInput],
// again without any network request.
func ResolveIdentity(ctx context.Context, dir Directory, username string) (syntax.DID, error) {
	atid, err := syntax.ParseAtIdentifier(username)
	if err != nil {
		return "", fmt.Errorf("%w: %q is neither a handle nor a DID", ErrInvalidInput, username)
	}
	if did, err := atid.AsDID(); err == nil { // if *not* an error
		return did, nil
	}
	handle, err := atid.AsHandle()
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidInput, username)
	}
	return dir.ResolveHandle(ctx, handle)
}

// DefaultDirectory returns a reasonable Directory implementation for
// applications: direct resolution behind an in-process cache.
func DefaultDirectory() Directory {
	cached := NewCacheDirectory(NewResolver(), 10_000, time.Hour*24, time.Minute*2)
	return &cached
}
