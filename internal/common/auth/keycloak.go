// internal/common/auth/keycloak.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"careerguide-workers/internal/common/config"
	"careerguide-workers/internal/common/errors"

	"golang.org/x/time/rate"
)

// KeycloakClient validates access tokens against the realm's introspection
// endpoint. Calls are rate limited so a burst of jobs cannot overload the
// identity provider.
type KeycloakClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// TokenInfo holds the introspection response. Claims keeps every field so
// deployment-specific claims can be read by name.
type TokenInfo struct {
	Active      bool   `json:"active"`
	Sub         string `json:"sub,omitempty"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
	Exp         int64  `json:"exp,omitempty"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`

	Claims map[string]interface{} `json:"-"`
}

func NewKeycloakClient(cfg config.KeycloakConfig) *KeycloakClient {
	timeout := config.GetDuration(cfg.IntrospectTimeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &KeycloakClient{
		baseURL:      strings.TrimSuffix(cfg.URL, "/"),
		realm:        cfg.Realm,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(limit, burst),
	}
}

// ValidateToken introspects token and returns its claims when it is active.
func (k *KeycloakClient) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New(errors.ErrCodeTokenInvalid, "Access token is empty", "")
	}
	if err := k.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIdentityUnavailable, "Introspection rate limit wait aborted", err)
	}

	introspectURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token/introspect", k.baseURL, k.realm)
	data := url.Values{}
	data.Set("token", token)
	data.Set("token_type_hint", "access_token")
	data.Set("client_id", k.clientID)
	data.Set("client_secret", k.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, introspectURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternalError, "Failed to create introspection request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIdentityUnavailable, "Failed to send introspection request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIdentityUnavailable, "Failed to read introspection response", err)
	}

	if resp.StatusCode != http.StatusOK {
		code := errors.ErrCodeTokenInvalid
		if isTransientHTTPError(resp.StatusCode) {
			code = errors.ErrCodeIdentityUnavailable
		}
		return nil, errors.New(code, "Keycloak introspection failed", fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)))
	}

	var info TokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIdentityUnavailable, "Failed to decode token introspection response", err)
	}
	if !info.Active {
		return nil, errors.New(errors.ErrCodeTokenInvalid, "Token is not active",
			"The provided access token is expired, revoked, malformed, or invalid for other reasons.")
	}
	if err := json.Unmarshal(body, &info.Claims); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIdentityUnavailable, "Failed to decode token claims", err)
	}
	return &info, nil
}

func isTransientHTTPError(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
