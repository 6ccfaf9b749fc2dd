package oauth

import (
	"fmt"

	"github.com/bluesky-social/atauthn/identity"
)

// Scope requested when the caller doesn't specify one.
const DefaultScope = "atproto transition:generic"

// Expected response type from looking up OAuth Protected Resource
// information on a server (eg, a PDS instance).
type ProtectedResourceMetadata struct {
	AuthorizationServers []string `json:"authorization_servers"`
}

// AuthServers returns the advertised authorization servers. The order is
// preserved and significant: discovery tries candidates first to last.
func (m *ProtectedResourceMetadata) AuthServers() ([]string, error) {
	if len(m.AuthorizationServers) == 0 {
		return nil, fmt.Errorf("%w: no authorization servers in protected resource metadata", identity.ErrMalformedResponse)
	}
	return m.AuthorizationServers, nil
}

// Subset of OAuth Authorization Server metadata which this flow reads.
type AuthServerMetadata struct {
	// the "origin" URL of the Authorization Server
	Issuer string `json:"issuer"`

	// endpoint URL for authorization redirects
	AuthorizationEndpoint string `json:"authorization_endpoint"`

	// endpoint URL for token requests
	TokenEndpoint string `json:"token_endpoint"`

	// endpoint URL for pushed authorization requests; optional, but the
	// login flow can't proceed without it
	PushedAuthorizationRequestEndpoint string `json:"pushed_authorization_request_endpoint,omitempty"`

	ResponseTypesSupported        []string `json:"response_types_supported,omitempty"`
	GrantTypesSupported           []string `json:"grant_types_supported,omitempty"`
	CodeChallengeMethodsSupported []string `json:"code_challenge_methods_supported,omitempty"`
	ScopesSupported               []string `json:"scopes_supported,omitempty"`
}

// HasRequiredEndpoints indicates whether both the authorization and token
// endpoints are present. A candidate server missing either is skipped
// during discovery.
func (m *AuthServerMetadata) HasRequiredEndpoints() bool {
	return m.AuthorizationEndpoint != "" && m.TokenEndpoint != ""
}

// Body of a pushed authorization request. Sent as a form-encoded HTTP
// POST, hence the URL encoding tags rather than JSON.
type PushedAuthRequest struct {
	// the client metadata URL, which doubles as the client ID
	ClientID string `url:"client_id"`

	// random per-request token, bound to the eventual callback
	State string `url:"state"`

	// where the auth server sends the user's browser after consent
	RedirectURI string `url:"redirect_uri"`

	// space-delimited list of requested auth scopes
	Scope string `url:"scope"`

	// account identifier (DID or handle) to pre-select on the login
	// screen; omitted when nil
	LoginHint *string `url:"login_hint,omitempty"`

	// always "code" in this flow
	ResponseType string `url:"response_type"`

	// PKCE challenge hash derived from the (secret) verifier
	CodeChallenge string `url:"code_challenge"`

	// always "S256" in this flow
	CodeChallengeMethod string `url:"code_challenge_method"`
}

// NewPushedAuthRequest fills in the constant fields and the default scope.
func NewPushedAuthRequest(clientID, redirectURI, state, codeChallenge string) PushedAuthRequest {
	return PushedAuthRequest{
		ClientID:            clientID,
		State:               state,
		RedirectURI:         redirectURI,
		Scope:               DefaultScope,
		ResponseType:        "code",
		CodeChallenge:       codeChallenge,
		CodeChallengeMethod: "S256",
	}
}

type PushedAuthResponse struct {
	// server-issued reference (URI form) to the pushed request, carried
	// in the authorization redirect
	RequestURI string `json:"request_uri"`

	// number of seconds the `request_uri` is valid for; passed through
	// from the server as-is
	ExpiresIn int `json:"expires_in"`
}
