package oidcgateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
	apperrors "github.com/vive-avila/ui-api/internal/errors"
	"github.com/vive-avila/ui-api/internal/ports"
)

// newDiscoveryServer serves a minimal OIDC discovery document whose issuer
// is the server's own URL.
func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()
	issuer := ""
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := DiscoveryDocument{
			Issuer:                issuer,
			AuthorizationEndpoint: "https://example.com/auth",
			TokenEndpoint:         "https://example.com/token",
			UserinfoEndpoint:      "https://example.com/userinfo",
			JwksURI:               "https://example.com/jwks",
		}
		_ = json.NewEncoder(w).Encode(doc)
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	issuer = server.URL
	return server
}

func createTestGateway(t *testing.T, mutate func(*Config)) *Gateway {
	t.Helper()
	discovery := newDiscoveryServer(t)
	cfg := Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://127.0.0.1:0/callback",
		Scope:        "openid profile email",
		DiscoveryURL: discovery.URL,
		LaunchURL:    func(context.Context, string) error { return nil },
	}
	if mutate != nil {
		mutate(&cfg)
	}
	gw, err := NewGateway(cfg)
	require.NoError(t, err)
	t.Cleanup(gw.Close)
	return gw
}

func TestNewGateway_Success(t *testing.T) {
	gw := createTestGateway(t, nil)
	assert.Equal(t, "https://example.com/auth", gw.config.Endpoint.AuthURL)
	assert.Equal(t, "https://example.com/token", gw.config.Endpoint.TokenURL)
}

func TestNewGateway_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		errMsg string
	}{
		{
			name: "missing client ID",
			config: Config{
				ClientSecret: "secret",
				RedirectURL:  "http://localhost/callback",
				DiscoveryURL: "http://example.com",
			},
			errMsg: "client ID is required",
		},
		{
			name: "missing client secret",
			config: Config{
				ClientID:     "client",
				RedirectURL:  "http://localhost/callback",
				DiscoveryURL: "http://example.com",
			},
			errMsg: "client secret is required",
		},
		{
			name:   "missing redirect URL",
			config: Config{ClientID: "client", ClientSecret: "secret", DiscoveryURL: "http://example.com"},
			errMsg: "redirect URL is required",
		},
		{
			name: "missing discovery URL",
			config: Config{
				ClientID:     "client",
				ClientSecret: "secret",
				RedirectURL:  "http://localhost/callback",
			},
			errMsg: "discovery URL is required",
		},
		{
			name: "broken claim expression",
			config: Config{
				ClientID:     "client",
				ClientSecret: "secret",
				RedirectURL:  "http://localhost/callback",
				DiscoveryURL: "http://example.com",
				Claims:       ClaimMap{UID: "sub", Email: "email[", EmailVerified: "email_verified"},
			},
			errMsg: "claim map",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGateway(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGateway_SignInInteractive_Dismissal(t *testing.T) {
	gw := createTestGateway(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := gw.SignInInteractive(ctx)
	assert.True(t, apperrors.IsCancelled(err))
}

func TestGateway_SubscribeTwice(t *testing.T) {
	gw := createTestGateway(t, nil)
	handler := func(context.Context, *domainauth.Credential) {}
	require.NoError(t, gw.SubscribeCredentialChanges(handler))
	assert.Error(t, gw.SubscribeCredentialChanges(handler))
}

func TestGateway_SignOutEmitsNilEvent(t *testing.T) {
	gw := createTestGateway(t, nil)

	events := make(chan *domainauth.Credential, 1)
	require.NoError(t, gw.SubscribeCredentialChanges(func(_ context.Context, cred *domainauth.Credential) {
		events <- cred
	}))

	require.NoError(t, gw.SignOut(context.Background()))

	select {
	case cred := <-events:
		assert.Nil(t, cred)
	case <-time.After(time.Second):
		t.Fatal("no credential event delivered")
	}
}

func TestGateway_SendVerification(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gw := createTestGateway(t, func(c *Config) { c.VerificationURL = server.URL })
	err := gw.SendVerification(context.Background(), &domainauth.Credential{ID: "u-1", Email: "x@unimet.edu.ve"})
	require.NoError(t, err)
	assert.Equal(t, "x@unimet.edu.ve", gotBody["email"])
}

func TestGateway_SendVerification_Throttled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	gw := createTestGateway(t, func(c *Config) { c.VerificationURL = server.URL })
	err := gw.SendVerification(context.Background(), &domainauth.Credential{ID: "u-1", Email: "x@unimet.edu.ve"})
	assert.True(t, apperrors.IsRateLimited(err))
}

func TestGateway_SendVerification_Unconfigured(t *testing.T) {
	gw := createTestGateway(t, nil)
	err := gw.SendVerification(context.Background(), &domainauth.Credential{ID: "u-1", Email: "x@unimet.edu.ve"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestCallbackListener_DeliversCode(t *testing.T) {
	cb, err := startCallbackListener("http://127.0.0.1:0/callback", "state-1")
	require.NoError(t, err)
	defer cb.close()

	addr := cb.ln.Addr().String()
	resp, err := http.Get(fmt.Sprintf("http://%s/callback?state=state-1&code=abc", addr))
	require.NoError(t, err)
	_ = resp.Body.Close()

	select {
	case result := <-cb.results:
		require.NoError(t, result.err)
		assert.Equal(t, "abc", result.code)
	case <-time.After(time.Second):
		t.Fatal("no callback result delivered")
	}
}

func TestCallbackListener_AccessDenied(t *testing.T) {
	cb, err := startCallbackListener("http://127.0.0.1:0/callback", "state-1")
	require.NoError(t, err)
	defer cb.close()

	addr := cb.ln.Addr().String()
	resp, err := http.Get(fmt.Sprintf("http://%s/callback?state=state-1&error=access_denied", addr))
	require.NoError(t, err)
	_ = resp.Body.Close()

	result := <-cb.results
	assert.True(t, result.denied)
	assert.Error(t, result.err)
}

func TestCallbackListener_StateMismatch(t *testing.T) {
	cb, err := startCallbackListener("http://127.0.0.1:0/callback", "state-1")
	require.NoError(t, err)
	defer cb.close()

	addr := cb.ln.Addr().String()
	resp, err := http.Get(fmt.Sprintf("http://%s/callback?state=wrong&code=abc", addr))
	require.NoError(t, err)
	_ = resp.Body.Close()

	result := <-cb.results
	require.Error(t, result.err)
	assert.False(t, result.denied)
}

func TestClaimMap_MapGoogleShape(t *testing.T) {
	claims := map[string]any{
		"sub":            "sub-123",
		"email":          "x@unimet.edu.ve",
		"email_verified": true,
		"name":           "Ana Pérez",
		"picture":        "https://example.com/p.png",
		"phone_number":   "+58-212-5551234",
	}
	cred, err := DefaultClaimMap().Map(claims)
	require.NoError(t, err)
	assert.Equal(t, "sub-123", cred.ID)
	assert.Equal(t, "x@unimet.edu.ve", cred.Email)
	assert.True(t, cred.EmailVerified)
	assert.Equal(t, "Ana Pérez", cred.DisplayName)
	assert.Equal(t, "https://example.com/p.png", cred.PhotoURL)
	assert.Equal(t, "+58-212-5551234", cred.PhoneNumber)
}

func TestClaimMap_MapStringVerifiedFlag(t *testing.T) {
	claims := map[string]any{
		"sub":            "sub-123",
		"email":          "x@unimet.edu.ve",
		"email_verified": "true",
	}
	cred, err := DefaultClaimMap().Map(claims)
	require.NoError(t, err)
	assert.True(t, cred.EmailVerified)
}

func TestClaimMap_MapNestedExpression(t *testing.T) {
	m := DefaultClaimMap()
	m.DisplayName = "profile.display_name"
	claims := map[string]any{
		"sub":     "sub-123",
		"email":   "x@unimet.edu.ve",
		"profile": map[string]any{"display_name": "Nested Name"},
	}
	cred, err := m.Map(claims)
	require.NoError(t, err)
	assert.Equal(t, "Nested Name", cred.DisplayName)
}

func TestClaimMap_MapMissingRequired(t *testing.T) {
	_, err := DefaultClaimMap().Map(map[string]any{"email": "x@unimet.edu.ve"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uid")

	_, err = DefaultClaimMap().Map(map[string]any{"sub": "sub-123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestRandomString(t *testing.T) {
	str1, err := randomString(16)
	require.NoError(t, err)
	assert.Len(t, str1, 16)

	str2, err := randomString(32)
	require.NoError(t, err)
	assert.Len(t, str2, 32)
	assert.NotEqual(t, str1, str2)
}

func TestGateway_ImplementsInterface(t *testing.T) {
	gw := createTestGateway(t, nil)
	var _ ports.IdentityGateway = gw
}
