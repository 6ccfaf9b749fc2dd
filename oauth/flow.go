package oauth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/bluesky-social/atauthn/identity"
	"github.com/bluesky-social/atauthn/syntax"
)

// ClientApp ties the resolution and discovery steps together into the
// login bootstrap flow. Create one per application; it is safe for
// concurrent use across users.
type ClientApp struct {
	// hostname of the application (no scheme), eg "app.example.com".
	// The client metadata URL and redirect URI are derived from it.
	AppURL string

	// space-separated OAuth scopes to request; DefaultScope if empty
	Scope string

	Dir      identity.Directory
	Resolver *Resolver
	PAR      *PARClient
	Logger   *slog.Logger
}

func NewClientApp(appURL string) *ClientApp {
	return &ClientApp{
		AppURL:   appURL,
		Scope:    DefaultScope,
		Dir:      identity.DefaultDirectory(),
		Resolver: NewResolver(),
		PAR:      NewPARClient(),
	}
}

func (app *ClientApp) logger() *slog.Logger {
	if app.Logger != nil {
		return app.Logger
	}
	return slog.Default()
}

// ClientID is the URL where the application serves its client metadata
// document. Auth servers fetch it to identify the client.
func (app *ClientApp) ClientID() string {
	return fmt.Sprintf("https://%s/oauth/client-metadata.json", app.AppURL)
}

// RedirectURI is the callback URL the auth server will redirect to after
// user consent.
func (app *ClientApp) RedirectURI() string {
	return fmt.Sprintf("https://%s/oauth/callback/", app.AppURL)
}

func (app *ClientApp) scope() string {
	if app.Scope != "" {
		return app.Scope
	}
	return DefaultScope
}

// AuthFlowResult is everything produced by a successful auth flow
// bootstrap.
type AuthFlowResult struct {
	// resolved account DID
	DID syntax.DID

	// base URL of the account's PDS
	PDSURL string

	// metadata of the authorization server that accepted the PAR
	AuthServer *AuthServerMetadata

	// random state token bound to this request
	State string

	// PKCE secret. Not persisted anywhere by this package: the caller
	// must retain it (keyed by State) to complete the token exchange
	// after the callback.
	PKCEVerifier string

	// S256 challenge derived from PKCEVerifier
	CodeChallenge string

	// server-issued reference to the pushed request
	RequestURI string

	// seconds until RequestURI expires
	ExpiresIn int

	// URL to send the user's browser to
	AuthorizationURL string
}

// StartAuthFlow runs the full login bootstrap for a username (handle or
// DID): identity resolution, PDS and auth server discovery, PKCE and state
// generation, and PAR submission. The first step that fails aborts the
// flow.
func (app *ClientApp) StartAuthFlow(ctx context.Context, username string) (*AuthFlowResult, error) {
	log := app.logger()

	did, err := identity.ResolveIdentity(ctx, app.Dir, username)
	if err != nil {
		log.Error("failed to resolve username to a DID", "username", username, "err", err)
		return nil, fmt.Errorf("resolving identity: %w", err)
	}
	log.Info("resolved identity", "username", username, "did", did)

	doc, err := app.Dir.ResolveDID(ctx, did)
	if err != nil {
		log.Error("failed to retrieve DID document", "did", did, "err", err)
		return nil, fmt.Errorf("fetching DID document: %w", err)
	}
	pdsURL := doc.PDSEndpoint()
	if pdsURL == "" {
		log.Error("no PDS endpoint in DID document", "did", did)
		return nil, fmt.Errorf("%w: no PDS endpoint in DID document for %s", identity.ErrNotFound, did)
	}
	log.Info("discovered PDS", "did", did, "pds", pdsURL)

	resourceMeta, err := app.Resolver.ResolveProtectedResource(ctx, pdsURL)
	if err != nil {
		log.Error("failed to retrieve PDS metadata", "pds", pdsURL, "err", err)
		return nil, fmt.Errorf("fetching protected resource metadata: %w", err)
	}
	servers, err := resourceMeta.AuthServers()
	if err != nil {
		log.Error("no authorization servers advertised by PDS", "pds", pdsURL)
		return nil, err
	}

	authMeta, err := app.Resolver.ResolveAuthServerMetadata(ctx, servers)
	if err != nil {
		log.Error("failed to retrieve auth server metadata", "servers", servers, "err", err)
		return nil, fmt.Errorf("discovering authorization server: %w", err)
	}
	if authMeta.PushedAuthorizationRequestEndpoint == "" {
		log.Error("authorization server does not advertise a PAR endpoint", "issuer", authMeta.Issuer)
		return nil, fmt.Errorf("%w: no PAR endpoint on authorization server", identity.ErrNotFound)
	}

	state, err := GenerateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}
	verifier, err := GenerateCodeVerifier(MaxVerifierLength)
	if err != nil {
		return nil, fmt.Errorf("generating code verifier: %w", err)
	}
	challenge := S256CodeChallenge(verifier)

	parReq := NewPushedAuthRequest(app.ClientID(), app.RedirectURI(), state, challenge)
	parReq.Scope = app.scope()
	hint := username
	parReq.LoginHint = &hint

	parResp, err := app.PAR.SendPAR(ctx, authMeta.PushedAuthorizationRequestEndpoint, parReq)
	if err != nil {
		log.Error("PAR submission failed", "endpoint", authMeta.PushedAuthorizationRequestEndpoint, "err", err)
		return nil, fmt.Errorf("pushed authorization request: %w", err)
	}

	authURL := BuildAuthURL(authMeta.AuthorizationEndpoint, app.ClientID(), parResp.RequestURI)
	log.Info("auth flow bootstrapped", "did", did, "requestURI", parResp.RequestURI, "expiresIn", parResp.ExpiresIn)

	return &AuthFlowResult{
		DID:              did,
		PDSURL:           pdsURL,
		AuthServer:       authMeta,
		State:            state,
		PKCEVerifier:     verifier,
		CodeChallenge:    challenge,
		RequestURI:       parResp.RequestURI,
		ExpiresIn:        parResp.ExpiresIn,
		AuthorizationURL: authURL,
	}, nil
}

// BuildAuthURL assembles the final authorization redirect URL, with both
// query parameters URL-encoded.
func BuildAuthURL(authEndpoint, clientID, requestURI string) string {
	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("request_uri", requestURI)
	return authEndpoint + "?" + params.Encode()
}
