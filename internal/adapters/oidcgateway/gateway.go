package oidcgateway

// Package oidcgateway implements the identity gateway against a
// standards-compliant OIDC provider (Google in production).

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
	apperrors "github.com/vive-avila/ui-api/internal/errors"
	"github.com/vive-avila/ui-api/internal/ports"
)

// Config holds configuration for the OIDC gateway.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // loopback address the consent flow returns to
	Scope        string
	DiscoveryURL string

	// RevocationURL receives token revocation requests on sign-out.
	RevocationURL string
	// VerificationURL receives requests to send a verification email.
	VerificationURL string

	Claims     ClaimMap
	HTTPClient *http.Client // Optional, defaults to a 30s-timeout client
	Logger     *slog.Logger

	// LaunchURL presents the provider's consent page to the visitor. The
	// default implementation only logs the URL.
	LaunchURL func(ctx context.Context, authURL string) error
}

// Gateway implements ports.IdentityGateway using OIDC/OAuth2.
type Gateway struct {
	config     *oauth2.Config
	httpClient *http.Client
	logger     *slog.Logger
	launchURL  func(ctx context.Context, authURL string) error

	revocationURL   string
	verificationURL string

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
	claims       ClaimMap

	mu        sync.Mutex
	handler   ports.CredentialHandler
	events    chan *domainauth.Credential
	lastToken *oauth2.Token
}

// DiscoveryDocument represents the OIDC discovery document.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// NewGateway creates a new OIDC gateway.
func NewGateway(config Config) (*Gateway, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	claims := config.Claims
	if claims.isZero() {
		claims = DefaultClaimMap()
	}
	if err := claims.Validate(); err != nil {
		return nil, fmt.Errorf("claim map: %w", err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := &Gateway{
		httpClient:      httpClient,
		logger:          logger,
		launchURL:       config.LaunchURL,
		revocationURL:   config.RevocationURL,
		verificationURL: config.VerificationURL,
		claims:          claims,
		events:          make(chan *domainauth.Credential, 16),
	}
	if g.launchURL == nil {
		g.launchURL = func(ctx context.Context, authURL string) error {
			logger.InfoContext(ctx, "open this URL to sign in", "url", authURL)
			return nil
		}
	}

	// Single discovery fetch; the verifier reuses the cached JWKS.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	g.oidcProvider = op
	g.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	scope := config.Scope
	if scope == "" {
		scope = "openid profile email"
	}
	g.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       strings.Fields(scope),
		Endpoint:     op.Endpoint(),
	}

	return g, nil
}

// SubscribeCredentialChanges registers the single credential-change handler
// and starts the dispatch goroutine. Events are delivered one at a time in
// emission order.
func (g *Gateway) SubscribeCredentialChanges(handler ports.CredentialHandler) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.handler != nil {
		return errors.New("credential handler already subscribed")
	}
	g.handler = handler

	go func() {
		for cred := range g.events {
			handler(context.Background(), cred)
		}
	}()
	return nil
}

// emit queues a credential-change event for the dispatch goroutine.
func (g *Gateway) emit(ctx context.Context, cred *domainauth.Credential) {
	select {
	case g.events <- cred:
	default:
		g.logger.WarnContext(ctx, "credential event queue full, dropping event")
	}
}

// SignInInteractive runs the authorization-code flow. It presents the
// consent page, waits on a loopback listener for the provider's redirect,
// and exchanges the code. Cancelling ctx while waiting is the dismissal
// path and reports a cancelled error.
func (g *Gateway) SignInInteractive(ctx context.Context) (*domainauth.Credential, error) {
	state, err := randomString(32)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(32)
	if err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	cb, err := startCallbackListener(g.config.RedirectURL, state)
	if err != nil {
		return nil, fmt.Errorf("start callback listener: %w", err)
	}
	defer cb.close()

	authURL := g.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	if launchErr := g.launchURL(ctx, authURL); launchErr != nil {
		return nil, fmt.Errorf("launch consent page: %w", launchErr)
	}

	var code string
	select {
	case <-ctx.Done():
		return nil, apperrors.Cancelled("sign-in dismissed")
	case result := <-cb.results:
		if result.err != nil {
			if result.denied {
				return nil, apperrors.Cancelled("sign-in dismissed")
			}
			return nil, result.err
		}
		code = result.code
	}

	cred, token, err := g.exchange(ctx, code, nonce)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.lastToken = token
	g.mu.Unlock()

	g.emit(ctx, cred)
	return cred, nil
}

// exchange trades the authorization code for tokens and maps the verified
// ID-token claims onto a credential.
func (g *Gateway) exchange(ctx context.Context, code, nonce string) (*domainauth.Credential, *oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return nil, nil, errors.New("missing id_token in token response")
	}
	idToken, err := g.verifier.Verify(ctx, rawID)
	if err != nil {
		return nil, nil, fmt.Errorf("verify id_token: %w", err)
	}

	var raw map[string]any
	if claimsErr := idToken.Claims(&raw); claimsErr != nil {
		return nil, nil, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if nonce != "" {
		if got, _ := raw["nonce"].(string); got != nonce {
			return nil, nil, errors.New("invalid nonce")
		}
	}

	cred, err := g.claims.Map(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("map claims: %w", err)
	}
	return cred, token, nil
}

// SignOut revokes the last token at the provider and emits the
// nil-credential event that destroys the session downstream.
func (g *Gateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	token := g.lastToken
	g.lastToken = nil
	g.mu.Unlock()

	var revokeErr error
	if g.revocationURL != "" && token != nil {
		revokeErr = g.revoke(ctx, token)
	}

	g.emit(ctx, nil)
	return revokeErr
}

func (g *Gateway) revoke(ctx context.Context, token *oauth2.Token) error {
	form := url.Values{"token": {token.AccessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.revocationURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build revocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("revoke token: provider returned %d", resp.StatusCode)
	}
	return nil
}

// SendVerification asks the provider to send a verification email for the
// credential. A 429 from the provider maps to a rate-limited error so
// callers can distinguish throttling from transport failures.
func (g *Gateway) SendVerification(ctx context.Context, cred *domainauth.Credential) error {
	if g.verificationURL == "" {
		return apperrors.Internal("verification endpoint not configured")
	}
	if cred == nil || cred.Email == "" {
		return apperrors.ValidationField("email", "credential email is required")
	}

	payload, err := json.Marshal(map[string]string{"email": cred.Email, "uid": cred.ID})
	if err != nil {
		return fmt.Errorf("encode verification request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.verificationURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.RateLimited("verification email throttled")
	case resp.StatusCode >= 400:
		return fmt.Errorf("send verification email: provider returned %d", resp.StatusCode)
	}
	return nil
}

// Close stops the event dispatch goroutine. No events may be emitted after.
func (g *Gateway) Close() {
	close(g.events)
}

// callbackResult carries the outcome of one loopback redirect.
type callbackResult struct {
	code   string
	denied bool
	err    error
}

type callbackListener struct {
	server  *http.Server
	ln      net.Listener
	results chan callbackResult
}

// startCallbackListener binds the loopback address from redirectURL and
// serves exactly one callback for the given state.
func startCallbackListener(redirectURL, state string) (*callbackListener, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("parse redirect URL: %w", err)
	}

	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", u.Host, err)
	}

	cb := &callbackListener{ln: ln, results: make(chan callbackResult, 1)}
	mux := http.NewServeMux()
	path := u.Path
	if path == "" {
		path = "/"
	}
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			cb.deliver(callbackResult{err: errors.New("state mismatch in callback")})
		case q.Get("error") != "":
			fmt.Fprint(w, "Inicio de sesión cancelado. Puede cerrar esta ventana.")
			cb.deliver(callbackResult{
				denied: q.Get("error") == "access_denied",
				err:    fmt.Errorf("provider returned error: %s", q.Get("error")),
			})
		case q.Get("code") == "":
			http.Error(w, "missing code", http.StatusBadRequest)
			cb.deliver(callbackResult{err: errors.New("missing code in callback")})
		default:
			fmt.Fprint(w, "Inicio de sesión completado. Puede cerrar esta ventana.")
			cb.deliver(callbackResult{code: q.Get("code")})
		}
	})

	cb.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = cb.server.Serve(ln) }()
	return cb, nil
}

func (c *callbackListener) deliver(r callbackResult) {
	select {
	case c.results <- r:
	default:
	}
}

func (c *callbackListener) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = c.server.Shutdown(ctx)
}

// randomString generates a cryptographically secure URL-safe random string
// of exact length.
func randomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}
