package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const identityEndpoint = "https://identitytoolkit.googleapis.com/v1"

// identityClient talks to the Identity Toolkit REST API. The admin SDK
// manages user records but cannot exchange a password or a Google ID token
// for a session; those flows only exist on the public API, keyed by the
// project's web API key.
type identityClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func newIdentityClient(apiKey string, client *http.Client) *identityClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &identityClient{
		endpoint: identityEndpoint,
		apiKey:   apiKey,
		http:     client,
	}
}

// tokenPayload is the common shape of the signUp / signInWith* responses.
type tokenPayload struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"` // seconds, sent as a string
}

func (c *identityClient) signUp(ctx context.Context, email, password string) (*tokenPayload, error) {
	return c.post(ctx, "accounts:signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

func (c *identityClient) signInWithPassword(ctx context.Context, email, password string) (*tokenPayload, error) {
	return c.post(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

func (c *identityClient) signInWithIdp(ctx context.Context, googleIDToken string) (*tokenPayload, error) {
	return c.post(ctx, "accounts:signInWithIdp", map[string]interface{}{
		"postBody":            "id_token=" + url.QueryEscape(googleIDToken) + "&providerId=google.com",
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	})
}

func (c *identityClient) post(ctx context.Context, action string, payload interface{}) (*tokenPayload, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("identity %s: marshal request: %w", action, err)
	}

	reqURL := c.endpoint + "/" + action + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("identity %s: create request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity %s: %w", action, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("identity %s: read response: %w", action, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeIdentityError(resp.StatusCode, respBody)
	}

	var tp tokenPayload
	if err := json.Unmarshal(respBody, &tp); err != nil {
		return nil, fmt.Errorf("identity %s: unmarshal response: %w", action, err)
	}
	return &tp, nil
}

// decodeIdentityError maps the API's error codes onto the service's
// sentinel errors so handlers can translate them to proper statuses.
func decodeIdentityError(status int, body []byte) error {
	msg := gjson.GetBytes(body, "error.message").String()
	switch {
	case msg == "EMAIL_EXISTS":
		return ErrEmailTaken
	case msg == "EMAIL_NOT_FOUND", msg == "INVALID_PASSWORD", msg == "INVALID_LOGIN_CREDENTIALS":
		return ErrInvalidCredentials
	case strings.HasPrefix(msg, "WEAK_PASSWORD"):
		return ErrWeakPassword
	case msg == "USER_DISABLED":
		return ErrUserDisabled
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("identity request failed (%d): %s", status, msg)
}
