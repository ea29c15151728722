package auth

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// DefaultAcceptedSuffixes are the two institutional email suffixes admitted
// by the portal.
var DefaultAcceptedSuffixes = []string{
	"@correo.unimet.edu.ve",
	"@unimet.edu.ve",
}

// AdmissionPolicy decides which email addresses are eligible for
// membership. Eligibility is a pure string check performed before any
// directory lookup.
type AdmissionPolicy struct {
	suffixes []string
}

// NewAdmissionPolicy builds a policy from the accepted suffixes; an empty
// list falls back to DefaultAcceptedSuffixes. Suffixes are matched
// case-insensitively and must include the "@" separator.
func NewAdmissionPolicy(suffixes []string) AdmissionPolicy {
	if len(suffixes) == 0 {
		suffixes = DefaultAcceptedSuffixes
	}
	normalized := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, "@") {
			s = "@" + s
		}
		normalized = append(normalized, s)
	}
	return AdmissionPolicy{suffixes: normalized}
}

// Eligible reports whether the address ends in one of the accepted
// suffixes. Addresses whose domain has no registrable form under the
// public suffix list are rejected outright.
func (p AdmissionPolicy) Eligible(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	_, domain, found := strings.Cut(email, "@")
	if !found || domain == "" {
		return false
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(domain); err != nil {
		return false
	}
	for _, suffix := range p.suffixes {
		if strings.HasSuffix(email, suffix) {
			return true
		}
	}
	return false
}
