package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bluesky-social/atauthn/identity"

	"github.com/hashicorp/go-cleanhttp"
)

// Resolver discovers OAuth metadata: the protected-resource document on a
// PDS, and the authorization server metadata behind it.
type Resolver struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func NewResolver() *Resolver {
	c := cleanhttp.DefaultPooledClient()
	c.Timeout = 10 * time.Second
	return &Resolver{HTTPClient: c}
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

// ResolveProtectedResource fetches the OAuth protected-resource metadata
// from a PDS's well-known endpoint.
func (r *Resolver) ResolveProtectedResource(ctx context.Context, pdsURL string) (*ProtectedResourceMetadata, error) {
	if pdsURL == "" {
		return nil, fmt.Errorf("%w: empty PDS URL", identity.ErrInvalidInput)
	}

	u := strings.TrimSuffix(pdsURL, "/") + "/.well-known/oauth-protected-resource"
	if err := identity.SafeURL(u); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrInvalidInput, err)
	}
	resp, err := r.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching protected resource metadata: %v", identity.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger().Warn("protected resource metadata fetch failed", "url", u, "statusCode", resp.StatusCode)
		return nil, fmt.Errorf("%w: protected resource metadata status %d", identity.ErrProtocol, resp.StatusCode)
	}

	var meta ProtectedResourceMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: protected resource metadata body: %v", identity.ErrMalformedResponse, err)
	}
	r.logger().Debug("fetched protected resource metadata", "pds", pdsURL, "authServers", meta.AuthorizationServers)
	return &meta, nil
}

// ResolveAuthServerMetadata tries each candidate authorization server in
// the given order and returns the metadata of the first one which
// advertises both an authorization endpoint and a token endpoint. The PAR
// endpoint may still be absent on the winner.
//
// Candidates which error (unsafe URL, HTTP, transport, or parse) or lack
// the required endpoints are logged and skipped.
func (r *Resolver) ResolveAuthServerMetadata(ctx context.Context, servers []string) (*AuthServerMetadata, error) {
	if len(servers) == 0 {
		return nil, fmt.Errorf("%w: no authorization servers to try", identity.ErrInvalidInput)
	}

	for _, server := range servers {
		meta, err := r.fetchAuthServerMetadata(ctx, server)
		if err != nil {
			r.logger().Warn("auth server metadata fetch failed", "server", server, "err", err)
			continue
		}
		if !meta.HasRequiredEndpoints() {
			r.logger().Warn("auth server metadata missing required endpoints", "server", server)
			continue
		}
		r.logger().Debug("discovered auth server",
			"server", server,
			"authorizationEndpoint", meta.AuthorizationEndpoint,
			"tokenEndpoint", meta.TokenEndpoint,
			"parEndpoint", meta.PushedAuthorizationRequestEndpoint)
		return meta, nil
	}
	return nil, fmt.Errorf("%w: no usable authorization server", identity.ErrNotFound)
}

func (r *Resolver) fetchAuthServerMetadata(ctx context.Context, server string) (*AuthServerMetadata, error) {
	u := strings.TrimSuffix(server, "/") + "/.well-known/oauth-authorization-server"
	if err := identity.SafeURL(u); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrInvalidInput, err)
	}
	resp, err := r.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching auth server metadata: %v", identity.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: auth server metadata status %d", identity.ErrProtocol, resp.StatusCode)
	}

	var meta AuthServerMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: auth server metadata body: %v", identity.ErrMalformedResponse, err)
	}
	return &meta, nil
}
