package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bluesky-social/atauthn/identity"

	"github.com/google/go-querystring/query"
	"github.com/hashicorp/go-cleanhttp"
)

// PARClient submits pushed authorization requests.
type PARClient struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func NewPARClient() *PARClient {
	c := cleanhttp.DefaultPooledClient()
	c.Timeout = 10 * time.Second
	return &PARClient{HTTPClient: c}
}

func (c *PARClient) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *PARClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// SendPAR submits a form-encoded pushed authorization request to the given
// endpoint and returns the server-issued request URI and its expiry.
//
// On a non-2xx response the server's JSON error body, if any, is logged
// best-effort before the error is returned.
func (c *PARClient) SendPAR(ctx context.Context, parEndpoint string, request PushedAuthRequest) (*PushedAuthResponse, error) {
	if parEndpoint == "" {
		return nil, fmt.Errorf("%w: empty PAR endpoint", identity.ErrInvalidInput)
	}
	if err := identity.SafeURL(parEndpoint); err != nil {
		return nil, err
	}

	vals, err := query.Values(request)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding PAR request: %v", identity.ErrInvalidInput, err)
	}
	bodyBytes := []byte(vals.Encode())

	c.logger().Info("sending pushed authorization request", "endpoint", parEndpoint, "scope", request.Scope, "state", request.State)

	req, err := http.NewRequestWithContext(ctx, "POST", parEndpoint, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrInvalidInput, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: PAR request: %v", identity.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			c.logger().Warn("PAR request failed", "endpoint", parEndpoint, "statusCode", resp.StatusCode)
		} else {
			c.logger().Warn("PAR request failed", "endpoint", parEndpoint, "statusCode", resp.StatusCode, "resp", errResp)
		}
		return nil, fmt.Errorf("%w: PAR request status %d", identity.ErrProtocol, resp.StatusCode)
	}

	var parResp PushedAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&parResp); err != nil {
		return nil, fmt.Errorf("%w: PAR response body: %v", identity.ErrMalformedResponse, err)
	}
	if parResp.RequestURI == "" {
		return nil, fmt.Errorf("%w: no request_uri in PAR response", identity.ErrMalformedResponse)
	}

	c.logger().Debug("PAR request accepted", "requestURI", parResp.RequestURI, "expiresIn", parResp.ExpiresIn)
	return &parResp, nil
}
