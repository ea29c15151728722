package oidcgateway

import (
	"errors"
	"fmt"
	"strconv"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
)

// ClaimMap holds JMESPath expressions that extract credential attributes
// from the provider's ID-token claims. Providers differ in claim shape;
// the expressions make the mapping configurable without code changes.
type ClaimMap struct {
	UID           string
	Email         string
	EmailVerified string
	DisplayName   string
	PhoneNumber   string
	PhotoURL      string
}

// DefaultClaimMap returns the standard OIDC claim shape used by Google.
func DefaultClaimMap() ClaimMap {
	return ClaimMap{
		UID:           "sub",
		Email:         "email",
		EmailVerified: "email_verified",
		DisplayName:   "name",
		PhoneNumber:   "phone_number",
		PhotoURL:      "picture",
	}
}

func (m ClaimMap) isZero() bool {
	return m == ClaimMap{}
}

// Validate compiles every non-empty expression to fail fast on typos.
func (m ClaimMap) Validate() error {
	for _, expr := range []string{m.UID, m.Email, m.EmailVerified, m.DisplayName, m.PhoneNumber, m.PhotoURL} {
		if expr == "" {
			continue
		}
		if _, err := jmespath.Compile(expr); err != nil {
			return fmt.Errorf("compile %q: %w", expr, err)
		}
	}
	if m.UID == "" {
		return errors.New("uid expression is required")
	}
	if m.Email == "" {
		return errors.New("email expression is required")
	}
	return nil
}

// Map evaluates the expressions against raw claims and builds a credential.
// UID and email are required; everything else is best-effort.
func (m ClaimMap) Map(claims map[string]any) (*domainauth.Credential, error) {
	uid, err := stringClaim(m.UID, claims)
	if err != nil {
		return nil, err
	}
	if uid == "" {
		return nil, errors.New("claims carry no uid")
	}
	email, err := stringClaim(m.Email, claims)
	if err != nil {
		return nil, err
	}
	if email == "" {
		return nil, errors.New("claims carry no email")
	}

	cred := &domainauth.Credential{ID: uid, Email: email}
	cred.EmailVerified, err = boolClaim(m.EmailVerified, claims)
	if err != nil {
		return nil, err
	}
	if cred.DisplayName, err = stringClaim(m.DisplayName, claims); err != nil {
		return nil, err
	}
	if cred.PhoneNumber, err = stringClaim(m.PhoneNumber, claims); err != nil {
		return nil, err
	}
	if cred.PhotoURL, err = stringClaim(m.PhotoURL, claims); err != nil {
		return nil, err
	}
	return cred, nil
}

func stringClaim(expr string, claims map[string]any) (string, error) {
	if expr == "" {
		return "", nil
	}
	v, err := jmespath.Search(expr, claims)
	if err != nil {
		return "", fmt.Errorf("evaluate %q: %w", expr, err)
	}
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return fmt.Sprintf("%v", s), nil
	}
}

// boolClaim tolerates the string forms some providers use for
// email_verified.
func boolClaim(expr string, claims map[string]any) (bool, error) {
	if expr == "" {
		return false, nil
	}
	v, err := jmespath.Search(expr, claims)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	case string:
		parsed, parseErr := strconv.ParseBool(b)
		if parseErr != nil {
			return false, nil
		}
		return parsed, nil
	default:
		return false, nil
	}
}
