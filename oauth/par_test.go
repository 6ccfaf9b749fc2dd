package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bluesky-social/atauthn/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPAR(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("POST", r.Method)
		assert.Equal("application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(r.ParseForm())
		gotForm = r.PostForm
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"request_uri": "urn:ietf:params:oauth:request_uri:req-abc", "expires_in": 90}`)
	}))
	defer srv.Close()

	parReq := NewPushedAuthRequest(
		"https://app.example.com/oauth/client-metadata.json",
		"https://app.example.com/oauth/callback/",
		"deadbeef",
		"challenge123",
	)
	hint := "alice.example.com"
	parReq.LoginHint = &hint

	client := &http.Client{Transport: &rewriteTransport{host: srv.Listener.Addr().String()}}
	c := &PARClient{HTTPClient: client}
	resp, err := c.SendPAR(ctx, "https://entryway.example.com/oauth/par", parReq)
	require.NoError(err)
	assert.Equal("urn:ietf:params:oauth:request_uri:req-abc", resp.RequestURI)
	assert.Equal(90, resp.ExpiresIn)

	assert.Equal("https://app.example.com/oauth/client-metadata.json", gotForm.Get("client_id"))
	assert.Equal("https://app.example.com/oauth/callback/", gotForm.Get("redirect_uri"))
	assert.Equal("deadbeef", gotForm.Get("state"))
	assert.Equal("challenge123", gotForm.Get("code_challenge"))
	assert.Equal("S256", gotForm.Get("code_challenge_method"))
	assert.Equal("code", gotForm.Get("response_type"))
	assert.Equal(DefaultScope, gotForm.Get("scope"))
	assert.Equal("alice.example.com", gotForm.Get("login_hint"))
}

func TestSendPAROmitsEmptyLoginHint(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(r.ParseForm())
		gotForm = r.PostForm
		fmt.Fprint(w, `{"request_uri": "urn:ietf:params:oauth:request_uri:req-xyz", "expires_in": 60}`)
	}))
	defer srv.Close()

	parReq := NewPushedAuthRequest("client", "redirect", "state", "challenge")
	client := &http.Client{Transport: &rewriteTransport{host: srv.Listener.Addr().String()}}
	c := &PARClient{HTTPClient: client}
	_, err := c.SendPAR(ctx, "https://entryway.example.com/oauth/par", parReq)
	assert.NoError(err)
	_, present := gotForm["login_hint"]
	assert.False(present)
}

func TestSendPARErrors(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	var status int
	var body string
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &rewriteTransport{host: srv.Listener.Addr().String()}}
	c := &PARClient{HTTPClient: client}
	parReq := NewPushedAuthRequest("client", "redirect", "state", "challenge")
	endpoint := "https://entryway.example.com/oauth/par"

	_, err := c.SendPAR(ctx, "", parReq)
	assert.ErrorIs(err, identity.ErrInvalidInput)

	// endpoints pointing at internal infrastructure are refused before
	// any request goes out
	for _, bad := range []string{"http://entryway.example.com/oauth/par", "https://192.168.1.10/oauth/par", "https://metadata.internal/oauth/par"} {
		_, err = c.SendPAR(ctx, bad, parReq)
		assert.ErrorIs(err, identity.ErrInvalidInput, bad)
	}
	assert.Equal(0, requests)

	// structured error body from the server
	status = http.StatusBadRequest
	body = `{"error": "invalid_request", "error_description": "unknown scope"}`
	_, err = c.SendPAR(ctx, endpoint, parReq)
	assert.ErrorIs(err, identity.ErrProtocol)

	// error status with a non-JSON body
	status = http.StatusServiceUnavailable
	body = "upstream down"
	_, err = c.SendPAR(ctx, endpoint, parReq)
	assert.ErrorIs(err, identity.ErrProtocol)

	status = http.StatusOK
	body = `{"expires_in": 90`
	_, err = c.SendPAR(ctx, endpoint, parReq)
	assert.ErrorIs(err, identity.ErrMalformedResponse)

	// 2xx but no request_uri
	body = `{"expires_in": 90}`
	_, err = c.SendPAR(ctx, endpoint, parReq)
	assert.ErrorIs(err, identity.ErrMalformedResponse)

	srv.Close()
	_, err = c.SendPAR(ctx, endpoint, parReq)
	assert.ErrorIs(err, identity.ErrTransport)
}
