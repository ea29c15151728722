package devgateway

// Package devgateway provides a config-driven identity gateway for local
// development. It short-circuits the federated consent flow and resolves
// sign-in to a fixed credential.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
	"github.com/vive-avila/ui-api/internal/ports"
)

// Config controls the dev gateway behavior. UID and Email are required.
type Config struct {
	UID           string
	Email         string
	EmailVerified bool
	DisplayName   string
	PhoneNumber   string
	PhotoURL      string
}

// Gateway implements ports.IdentityGateway for local development.
type Gateway struct {
	cred domainauth.Credential

	mu      sync.Mutex
	handler ports.CredentialHandler
	events  chan *domainauth.Credential
}

// NewGateway constructs a dev gateway from Config.
func NewGateway(cfg Config) (*Gateway, error) {
	if cfg.UID == "" {
		return nil, errors.New("dev gateway: UID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev gateway: Email is required")
	}
	return &Gateway{
		cred: domainauth.Credential{
			ID:            cfg.UID,
			Email:         cfg.Email,
			EmailVerified: cfg.EmailVerified,
			DisplayName:   cfg.DisplayName,
			PhoneNumber:   cfg.PhoneNumber,
			PhotoURL:      cfg.PhotoURL,
		},
		events: make(chan *domainauth.Credential, 16),
	}, nil
}

// SignInInteractive returns the configured credential immediately and
// queues the matching credential-change event.
func (g *Gateway) SignInInteractive(_ context.Context) (*domainauth.Credential, error) {
	cred := g.cred
	g.emit(&cred)
	out := g.cred
	return &out, nil
}

// SignOut queues the nil-credential event that destroys the session.
func (g *Gateway) SignOut(context.Context) error {
	g.emit(nil)
	return nil
}

// SendVerification pretends the verification email was sent.
func (g *Gateway) SendVerification(context.Context, *domainauth.Credential) error {
	return nil
}

// SubscribeCredentialChanges registers the single handler and starts the
// dispatch goroutine.
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

// Close stops the event dispatch goroutine.
func (g *Gateway) Close() {
	close(g.events)
}

func (g *Gateway) emit(cred *domainauth.Credential) {
	select {
	case g.events <- cred:
	default:
	}
}
