package config

import (
	"fmt"
	"strings"
)

// GatewayMode represents the identity gateway mode for the application.
type GatewayMode string

const (
	// GatewayModeOIDC uses a federated OIDC provider (Google in production).
	GatewayModeOIDC GatewayMode = "oidc"
	// GatewayModeMock uses a config-driven gateway (for development only).
	GatewayModeMock GatewayMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for GatewayMode.
func (g *GatewayMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oidc", "mock":
		*g = GatewayMode(v)
		return nil
	default:
		return fmt.Errorf("invalid GatewayMode: %q (valid options: oidc, mock)", v)
	}
}

// OIDCConfig contains OIDC gateway configuration.
type OIDCConfig struct {
	ClientID        string `env:"CLIENT_ID"`
	ClientSecret    string `env:"CLIENT_SECRET"`
	RedirectURL     string `env:"REDIRECT_URL"     envDefault:"http://127.0.0.1:8765/auth/callback"`
	Scope           string `env:"SCOPE"            envDefault:"openid profile email"`
	DiscoveryURL    string `env:"DISCOVERY_URL"    envDefault:"https://accounts.google.com"`
	RevocationURL   string `env:"REVOCATION_URL"   envDefault:"https://oauth2.googleapis.com/revoke"`
	VerificationURL string `env:"VERIFICATION_URL"`

	// Claim extraction expressions (JMESPath). Empty values fall back to
	// the standard Google claim shape.
	ClaimUID           string `env:"CLAIM_UID"`
	ClaimEmail         string `env:"CLAIM_EMAIL"`
	ClaimEmailVerified string `env:"CLAIM_EMAIL_VERIFIED"`
	ClaimDisplayName   string `env:"CLAIM_DISPLAY_NAME"`
	ClaimPhoneNumber   string `env:"CLAIM_PHONE_NUMBER"`
	ClaimPhotoURL      string `env:"CLAIM_PHOTO_URL"`
}

// DevGatewayConfig controls the mock gateway identity.
// Used when AUTH_MODE=mock for development and testing.
type DevGatewayConfig struct {
	UID           string `env:"UID"            envDefault:"dev-user"`
	Email         string `env:"EMAIL"          envDefault:"dev@unimet.edu.ve"`
	EmailVerified bool   `env:"EMAIL_VERIFIED" envDefault:"true"`
	DisplayName   string `env:"DISPLAY_NAME"   envDefault:"Dev User"`
}

// AuthConfig groups all identity-related configuration.
type AuthConfig struct {
	// Mode determines which identity gateway to use.
	Mode GatewayMode `env:"AUTH_MODE" envDefault:"oidc"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// Dev gateway configuration (used when Mode=mock).
	Dev DevGatewayConfig `envPrefix:"DEV_AUTH_"`

	// AcceptedEmailSuffixes restricts admission to institutional addresses.
	AcceptedEmailSuffixes []string `env:"ACCEPTED_EMAIL_SUFFIXES" envSeparator:";" envDefault:"@correo.unimet.edu.ve;@unimet.edu.ve"`
}

// Sanitize normalises admission suffixes.
func (c *AuthConfig) Sanitize() {
	cleaned := make([]string, 0, len(c.AcceptedEmailSuffixes))
	for _, s := range c.AcceptedEmailSuffixes {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	c.AcceptedEmailSuffixes = cleaned
}
