package identity

import (
	"context"
	"time"

	"github.com/bluesky-social/atauthn/syntax"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheDirectory wraps an inner Directory with in-process LRU caches for
// handle and DID lookups. Errors are cached too, with a separate (shorter)
// TTL, so a flapping upstream doesn't get hammered.
//
// Concurrent lookups of the same identifier are not coalesced; both hit
// the inner directory and the last one wins the cache slot.
type CacheDirectory struct {
	Inner  Directory
	ErrTTL time.Duration

	handleCache *expirable.LRU[syntax.Handle, handleEntry]
	docCache    *expirable.LRU[syntax.DID, docEntry]
}

type handleEntry struct {
	Updated time.Time
	DID     syntax.DID
	Err     error
}

type docEntry struct {
	Updated time.Time
	Doc     *DIDDocument
	Err     error
}

var _ Directory = (*CacheDirectory)(nil)

// Capacity of zero means unlimited size. Similarly, hitTTL of zero means
// unlimited duration.
func NewCacheDirectory(inner Directory, capacity int, hitTTL, errTTL time.Duration) CacheDirectory {
	return CacheDirectory{
		Inner:       inner,
		ErrTTL:      errTTL,
		handleCache: expirable.NewLRU[syntax.Handle, handleEntry](capacity, nil, hitTTL),
		docCache:    expirable.NewLRU[syntax.DID, docEntry](capacity, nil, hitTTL),
	}
}

func (d *CacheDirectory) isStale(updated time.Time, err error) bool {
	return err != nil && time.Since(updated) > d.ErrTTL
}

func (d *CacheDirectory) ResolveHandle(ctx context.Context, handle syntax.Handle) (syntax.DID, error) {
	handle = handle.Normalize()
	entry, ok := d.handleCache.Get(handle)
	if ok && !d.isStale(entry.Updated, entry.Err) {
		handleCacheHits.Inc()
		return entry.DID, entry.Err
	}
	handleCacheMisses.Inc()

	did, err := d.Inner.ResolveHandle(ctx, handle)
	d.handleCache.Add(handle, handleEntry{
		Updated: time.Now(),
		DID:     did,
		Err:     err,
	})
	return did, err
}

func (d *CacheDirectory) ResolveDID(ctx context.Context, did syntax.DID) (*DIDDocument, error) {
	entry, ok := d.docCache.Get(did)
	if ok && !d.isStale(entry.Updated, entry.Err) {
		didCacheHits.Inc()
		return entry.Doc, entry.Err
	}
	didCacheMisses.Inc()

	doc, err := d.Inner.ResolveDID(ctx, did)
	d.docCache.Add(did, docEntry{
		Updated: time.Now(),
		Doc:     doc,
		Err:     err,
	})
	return doc, err
}

// Purge drops any cached state for the indicated identifier.
func (d *CacheDirectory) Purge(atid syntax.AtIdentifier) {
	if handle, err := atid.AsHandle(); err == nil { // if *not* an error
		d.handleCache.Remove(handle.Normalize())
		return
	}
	if did, err := atid.AsDID(); err == nil {
		d.docCache.Remove(did)
	}
}
