package auth

// Package auth contains hand-written test doubles for the portal's auth
// ports. These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/vive-avila/ui-api/internal/errors"

	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
	"github.com/vive-avila/ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityGateway = (*ScriptedGateway)(nil)
	_ ports.DirectoryStore  = (*MemoryDirectory)(nil)
	_ ports.SessionCache    = (*MemorySessionCache)(nil)
)

// ScriptedGateway simulates the identity gateway. Tests script the
// interactive sign-in result and drive the passive listener by emitting
// credential-change events directly.
type ScriptedGateway struct {
	SignInFunc           func(ctx context.Context) (*domainauth.Credential, error)
	SignOutFunc          func(ctx context.Context) error
	SendVerificationFunc func(ctx context.Context, cred *domainauth.Credential) error

	mu                sync.Mutex
	handler           ports.CredentialHandler
	signOutCalls      int
	verificationCalls int
}

// NewScriptedGateway creates a gateway whose calls succeed by default.
func NewScriptedGateway() *ScriptedGateway {
	return &ScriptedGateway{}
}

func (g *ScriptedGateway) SignInInteractive(ctx context.Context) (*domainauth.Credential, error) {
	if g.SignInFunc != nil {
		return g.SignInFunc(ctx)
	}
	return nil, apperrors.Cancelled("sign-in not scripted")
}

func (g *ScriptedGateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	g.signOutCalls++
	g.mu.Unlock()
	if g.SignOutFunc != nil {
		return g.SignOutFunc(ctx)
	}
	return nil
}

func (g *ScriptedGateway) SendVerification(ctx context.Context, cred *domainauth.Credential) error {
	g.mu.Lock()
	g.verificationCalls++
	g.mu.Unlock()
	if g.SendVerificationFunc != nil {
		return g.SendVerificationFunc(ctx, cred)
	}
	return nil
}

func (g *ScriptedGateway) SubscribeCredentialChanges(handler ports.CredentialHandler) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.handler != nil {
		return errors.New("credential handler already subscribed")
	}
	g.handler = handler
	return nil
}

// Emit synchronously delivers one credential-change event to the
// subscribed handler.
func (g *ScriptedGateway) Emit(ctx context.Context, cred *domainauth.Credential) {
	g.mu.Lock()
	handler := g.handler
	g.mu.Unlock()
	if handler != nil {
		handler(ctx, cred)
	}
}

// SignOutCalls reports how many times SignOut ran.
func (g *ScriptedGateway) SignOutCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.signOutCalls
}

// VerificationCalls reports how many times SendVerification ran.
func (g *ScriptedGateway) VerificationCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.verificationCalls
}

// MemoryDirectory is an in-memory directory store keyed by record handle.
type MemoryDirectory struct {
	mu      sync.Mutex
	records map[string]domainauth.Record
	inserts int
	nextRef int
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{records: make(map[string]domainauth.Record)}
}

// Seed adds a record under a generated handle and returns the handle.
func (d *MemoryDirectory) Seed(rec domainauth.Record) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addLocked(rec)
}

func (d *MemoryDirectory) addLocked(rec domainauth.Record) string {
	d.nextRef++
	ref := refName(d.nextRef)
	d.records[ref] = rec
	return ref
}

func refName(n int) string {
	return fmt.Sprintf("rec-%d", n)
}

func (d *MemoryDirectory) FindOneByEmail(_ context.Context, email string) (domainauth.Record, string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for ref, rec := range d.records {
		if rec.Email == email {
			return rec, ref, nil
		}
	}
	return domainauth.Record{}, "", apperrors.NotFound("record not found")
}

func (d *MemoryDirectory) CountByEmail(_ context.Context, email string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := 0
	for _, rec := range d.records {
		if rec.Email == email {
			count++
		}
	}
	return count, nil
}

func (d *MemoryDirectory) Insert(_ context.Context, rec domainauth.Record) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inserts++
	return d.addLocked(rec), nil
}

func (d *MemoryDirectory) UpdateByRef(_ context.Context, ref string, rec domainauth.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.records[ref]; !ok {
		return apperrors.NotFound("record not found")
	}
	d.records[ref] = rec
	return nil
}

// Inserts reports how many records were provisioned through Insert.
func (d *MemoryDirectory) Inserts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inserts
}

// Get returns the record behind a handle.
func (d *MemoryDirectory) Get(ref string) (domainauth.Record, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.records[ref]
	return rec, ok
}

// MemorySessionCache is an in-memory session cache for unit tests.
type MemorySessionCache struct {
	mu    sync.Mutex
	snap  *domainauth.Snapshot
	saves int
}

// NewMemorySessionCache creates an empty cache.
func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{}
}

func (c *MemorySessionCache) Load(context.Context) (*domainauth.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return nil, nil
	}
	copied := *c.snap
	return &copied, nil
}

func (c *MemorySessionCache) Save(_ context.Context, snap domainauth.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = &snap
	c.saves++
	return nil
}

func (c *MemorySessionCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
	return nil
}

// Stored returns the persisted snapshot, or nil.
func (c *MemorySessionCache) Stored() *domainauth.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return nil
	}
	copied := *c.snap
	return &copied
}

// Saves reports how many times Save ran.
func (c *MemorySessionCache) Saves() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}
