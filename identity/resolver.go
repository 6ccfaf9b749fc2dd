package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bluesky-social/atauthn/syntax"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/time/rate"
)

var DefaultPLCURL = "https://plc.directory"

// Resolver does direct (uncached) resolution of handles and DIDs over
// HTTP. The zero value is usable; [NewResolver] fills in reasonable
// defaults.
type Resolver struct {
	// base URL of the PLC directory; should have scheme, hostname, and
	// optional port, with no path or trailing slash
	PLCURL string

	// HTTP client used for both handle resolution and PLC directory
	// requests
	HTTPClient *http.Client

	// if non-nil, this limiter gates requests to the PLC directory
	PLCLimiter *rate.Limiter

	// if non-nil, used instead of the process-wide default logger
	Logger *slog.Logger
}

var _ Directory = (*Resolver)(nil)

func NewResolver() *Resolver {
	c := cleanhttp.DefaultPooledClient()
	c.Timeout = 10 * time.Second
	return &Resolver{
		PLCURL:     DefaultPLCURL,
		HTTPClient: c,
	}
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Resolver) httpClient() *http.Client {
	if r.HTTPClient != nil {
		return r.HTTPClient
	}
	return http.DefaultClient
}

// ResolveHandle resolves a handle to a DID using the XRPC resolveHandle
// route on the handle's domain (the handle with its leftmost label
// stripped).
func (r *Resolver) ResolveHandle(ctx context.Context, handle syntax.Handle) (syntax.DID, error) {
	handle = handle.Normalize()
	start := time.Now()
	did, err := r.resolveHandle(ctx, handle)
	status := metricStatus(err)
	handleResolution.WithLabelValues(status).Inc()
	handleResolutionDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	return did, err
}

func (r *Resolver) resolveHandle(ctx context.Context, handle syntax.Handle) (syntax.DID, error) {
	u := fmt.Sprintf("https://%s/xrpc/com.atproto.identity.resolveHandle?handle=%s", handle.Domain(), url.QueryEscape(handle.String()))
	if err := SafeURL(u); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	resp, err := r.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: resolving handle %s: %v", ErrTransport, handle, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger().Info("handle resolution failed", "handle", handle, "statusCode", resp.StatusCode)
		return "", fmt.Errorf("%w: handle resolution status %d", ErrProtocol, resp.StatusCode)
	}

	var body struct {
		DID string `json:"did"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: handle resolution body: %v", ErrMalformedResponse, err)
	}
	if body.DID == "" {
		return "", fmt.Errorf("%w: no DID for handle %s", ErrNotFound, handle)
	}
	did, err := syntax.ParseDID(body.DID)
	if err != nil {
		return "", fmt.Errorf("%w: invalid DID in handle resolution response: %v", ErrMalformedResponse, err)
	}
	r.logger().Debug("resolved handle", "handle", handle, "did", did)
	return did, nil
}

// ResolveDID fetches the DID document for a DID from the PLC directory.
//
// HTTP 404 (unknown DID) and 410 (tombstoned DID) are logged distinctly
// but both map to [ErrNotFound].
func (r *Resolver) ResolveDID(ctx context.Context, did syntax.DID) (*DIDDocument, error) {
	start := time.Now()
	doc, err := r.resolveDID(ctx, did)
	status := metricStatus(err)
	didResolution.WithLabelValues(status).Inc()
	didResolutionDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	return doc, err
}

func (r *Resolver) resolveDID(ctx context.Context, did syntax.DID) (*DIDDocument, error) {
	plcURL := r.PLCURL
	if plcURL == "" {
		plcURL = DefaultPLCURL
	}
	if r.PLCLimiter != nil {
		if err := r.PLCLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}

	u := strings.TrimSuffix(plcURL, "/") + "/" + did.String()
	if err := SafeURL(u); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	resp, err := r.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching DID document for %s: %v", ErrTransport, did, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		r.logger().Warn("DID not found", "did", did)
		return nil, fmt.Errorf("%w: DID %s", ErrNotFound, did)
	case resp.StatusCode == http.StatusGone:
		r.logger().Warn("DID tombstoned", "did", did)
		return nil, fmt.Errorf("%w: DID %s (tombstoned)", ErrNotFound, did)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		r.logger().Warn("DID document fetch failed", "did", did, "statusCode", resp.StatusCode)
		return nil, fmt.Errorf("%w: DID document fetch status %d", ErrProtocol, resp.StatusCode)
	}

	var doc DIDDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: DID document body: %v", ErrMalformedResponse, err)
	}
	r.logger().Debug("resolved DID document", "did", did, "pds", doc.PDSEndpoint())
	return &doc, nil
}
