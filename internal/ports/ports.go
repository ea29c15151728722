// Package ports defines interfaces (hexagonal ports) for the portal core.
// Implementations live in internal/adapters and internal/data;
// orchestration in internal/service.
package ports

import (
	"context"

	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
)

// CredentialHandler receives credential-change events from the gateway.
// A nil credential means "no active credential". Implementations deliver
// events one at a time from their own dispatch goroutine, in emission
// order; they never invoke the handler synchronously from SignOut or
// SignInInteractive.
type CredentialHandler func(ctx context.Context, cred *domainauth.Credential)

// IdentityGateway is the remote federated identity service. Sign-in is
// interactive and may be abandoned by the visitor; abandonment surfaces as
// an error satisfying errors.IsCancelled, not as a failure.
type IdentityGateway interface {
	// SignInInteractive runs the federated sign-in flow and returns the
	// authenticated credential.
	SignInInteractive(ctx context.Context) (*domainauth.Credential, error)

	// SignOut revokes the active credential at the gateway. Implementations
	// emit a nil credential-change event once revocation completes.
	SignOut(ctx context.Context) error

	// SendVerification asks the gateway to (re)send an email-verification
	// message for the given credential. A quota rejection surfaces as an
	// error satisfying errors.IsRateLimited.
	SendVerification(ctx context.Context, cred *domainauth.Credential) error

	// SubscribeCredentialChanges registers the single long-lived handler for
	// credential-change events. At most one subscription is supported; a
	// second call reports an error.
	SubscribeCredentialChanges(handler CredentialHandler) error
}

// DirectoryStore is the remote document store holding one profile record
// per admitted principal, queryable by exact email match.
type DirectoryStore interface {
	// FindOneByEmail fetches at most one record with the given email,
	// returning the record and an opaque handle for later writes.
	// A missing record reports errors.IsNotFound.
	FindOneByEmail(ctx context.Context, email string) (domainauth.Record, string, error)

	// CountByEmail reports how many records carry the given email.
	CountByEmail(ctx context.Context, email string) (int, error)

	// Insert provisions a new record and returns its handle.
	Insert(ctx context.Context, rec domainauth.Record) (string, error)

	// UpdateByRef rewrites the mutable profile attributes of the record
	// behind the given handle.
	UpdateByRef(ctx context.Context, ref string, rec domainauth.Record) error
}

// SessionCache is the process-local persistence slot for one serialized
// session snapshot. It survives restarts and is cleared explicitly.
type SessionCache interface {
	// Load reads the stored snapshot. Missing or corrupt data is treated as
	// absent (nil, nil), not as an error.
	Load(ctx context.Context) (*domainauth.Snapshot, error)

	// Save overwrites the stored snapshot.
	Save(ctx context.Context, snap domainauth.Snapshot) error

	// Clear removes the stored snapshot.
	Clear(ctx context.Context) error
}
