package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/vive-avila/ui-api/config"
	"github.com/vive-avila/ui-api/internal/adapters/devgateway"
	"github.com/vive-avila/ui-api/internal/adapters/oidcgateway"
	"github.com/vive-avila/ui-api/internal/ports"
)

// GatewayConfig contains configuration for building the identity gateway.
type GatewayConfig struct {
	Auth   config.AuthConfig
	Logger *slog.Logger
}

// BuildGateway creates an identity gateway based on the configured auth mode.
//
//nolint:ireturn // the gateway implementation is selected at runtime by mode.
func BuildGateway(cfg GatewayConfig) (ports.IdentityGateway, error) {
	switch cfg.Auth.Mode {
	case config.GatewayModeMock:
		return buildDevGateway(cfg)
	case config.GatewayModeOIDC:
		return buildOIDCGateway(cfg)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}

func buildDevGateway(cfg GatewayConfig) (ports.IdentityGateway, error) { //nolint:ireturn
	gw, err := devgateway.NewGateway(devgateway.Config{
		UID:           cfg.Auth.Dev.UID,
		Email:         cfg.Auth.Dev.Email,
		EmailVerified: cfg.Auth.Dev.EmailVerified,
		DisplayName:   cfg.Auth.Dev.DisplayName,
	})
	if err != nil {
		return nil, fmt.Errorf("create dev gateway: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("using mock identity gateway", "email", cfg.Auth.Dev.Email)
	}
	return gw, nil
}

func buildOIDCGateway(cfg GatewayConfig) (ports.IdentityGateway, error) { //nolint:ireturn
	oc := cfg.Auth.OIDC
	if oc.DiscoveryURL == "" || oc.ClientID == "" || oc.ClientSecret == "" {
		return nil, fmt.Errorf("oidc gateway requires discovery url, client id, and client secret (discovery_empty=%t client_id_empty=%t client_secret_empty=%t)",
			oc.DiscoveryURL == "", oc.ClientID == "", oc.ClientSecret == "")
	}

	gw, err := oidcgateway.NewGateway(oidcgateway.Config{
		ClientID:        oc.ClientID,
		ClientSecret:    oc.ClientSecret,
		RedirectURL:     oc.RedirectURL,
		Scope:           oc.Scope,
		DiscoveryURL:    oc.DiscoveryURL,
		RevocationURL:   oc.RevocationURL,
		VerificationURL: oc.VerificationURL,
		Claims:          claimMapFromConfig(oc),
		Logger:          cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create oidc gateway: %w", err)
	}
	return gw, nil
}

// claimMapFromConfig overlays configured claim expressions on the default
// Google claim shape.
func claimMapFromConfig(oc config.OIDCConfig) oidcgateway.ClaimMap {
	claims := oidcgateway.DefaultClaimMap()
	if oc.ClaimUID != "" {
		claims.UID = oc.ClaimUID
	}
	if oc.ClaimEmail != "" {
		claims.Email = oc.ClaimEmail
	}
	if oc.ClaimEmailVerified != "" {
		claims.EmailVerified = oc.ClaimEmailVerified
	}
	if oc.ClaimDisplayName != "" {
		claims.DisplayName = oc.ClaimDisplayName
	}
	if oc.ClaimPhoneNumber != "" {
		claims.PhoneNumber = oc.ClaimPhoneNumber
	}
	if oc.ClaimPhotoURL != "" {
		claims.PhotoURL = oc.ClaimPhotoURL
	}
	return claims
}
