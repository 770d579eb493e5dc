package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sushihentaime/nightblog/internal/common"
)

// IdentityProvider exchanges the opaque session id handed to the frontend for verified claims.
type IdentityProvider interface {
	SessionData(ctx context.Context, sessionID string) (*Identity, error)
}

type HTTPIdentityProvider struct {
	endpoint string
	client   *http.Client
}

func NewHTTPIdentityProvider(endpoint string, timeout time.Duration) *HTTPIdentityProvider {
	return &HTTPIdentityProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func upstreamError(err error) error {
	return fmt.Errorf("%w: %v", common.ErrUpstreamAuth, err)
}

// SessionData calls the provider with the X-Session-ID header. Every failure is reported as
// common.ErrUpstreamAuth.
func (p *HTTPIdentityProvider) SessionData(ctx context.Context, sessionID string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return nil, upstreamError(err)
	}
	req.Header.Set("X-Session-ID", sessionID)
	req.Header.Set("Accept", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, upstreamError(err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, upstreamError(fmt.Errorf("provider responded with status %d", res.StatusCode))
	}

	var identity Identity
	err = json.NewDecoder(io.LimitReader(res.Body, 1_048_576)).Decode(&identity)
	if err != nil {
		return nil, upstreamError(err)
	}

	if identity.Email == "" || identity.SessionToken == "" {
		return nil, upstreamError(errors.New("provider returned incomplete session data"))
	}

	return &identity, nil
}
