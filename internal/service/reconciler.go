package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	apperrors "github.com/vive-avila/ui-api/internal/errors"

	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
	"github.com/vive-avila/ui-api/internal/domain/view"
	"github.com/vive-avila/ui-api/internal/ports"
)

// Visitor-facing notification texts, kept in the portal's language.
const (
	MsgVerificationSent = "Email de verificación enviado. Puede iniciar sesión después de hacer click en el link dentro de este."
	MsgGatewayError     = "Error al comunicarse con el servidor"
	MsgDomainRestricted = "Error: Solo se permiten correos de la UNIMET"
)

// MetricSink is the minimal metrics interface the reconciler emits to.
// Satisfied by observability/statsd.Client.
type MetricSink interface {
	Count(name string, value int64, tags map[string]string)
}

// ShellDeps groups the shell-side collaborators of the reconciler.
type ShellDeps struct {
	Cache         ports.SessionCache
	Router        *Router
	Notifications *NotificationChannel
}

// ReconcilerOptions groups dependencies for Reconciler.
type ReconcilerOptions struct {
	Gateway   ports.IdentityGateway
	Directory ports.DirectoryStore
	Shell     ShellDeps
}

// Reconciler owns the authoritative session. It listens to the gateway's
// credential-change stream, validates each event, cross-references the
// directory, and mutates session, cache, view, and notification slot as a
// consequence. A nil session means "unauthenticated".
//
// Two flows feed it: the passive listener (authoritative for session
// state) and the active sign-in initiation (authoritative for view
// navigation and provisioning). Both resolve membership through the same
// directory rule, so their interleaving converges on the same session.
type Reconciler struct {
	gateway   ports.IdentityGateway
	directory ports.DirectoryStore
	cache     ports.SessionCache
	router    *Router
	notify    *NotificationChannel
	admission domainauth.AdmissionPolicy
	logger    *slog.Logger
	metrics   MetricSink

	mu      sync.Mutex
	session *domainauth.Session
	started bool
}

// NewReconciler constructs a Reconciler.
func NewReconciler(opts ReconcilerOptions) *Reconciler {
	return &Reconciler{
		gateway:   opts.Gateway,
		directory: opts.Directory,
		cache:     opts.Shell.Cache,
		router:    opts.Shell.Router,
		notify:    opts.Shell.Notifications,
		admission: domainauth.NewAdmissionPolicy(nil),
		logger:    slog.Default(),
	}
}

// WithAdmission replaces the email admission policy.
func (r *Reconciler) WithAdmission(p domainauth.AdmissionPolicy) *Reconciler {
	r.admission = p
	return r
}

// WithLogger replaces the logger.
func (r *Reconciler) WithLogger(logger *slog.Logger) *Reconciler {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithMetrics attaches a metric sink.
func (r *Reconciler) WithMetrics(m MetricSink) *Reconciler {
	r.metrics = m
	return r
}

// Start rehydrates the session from the cache and establishes the single
// long-lived credential-change subscription. It must be called exactly
// once per process; a second call is a defect and reports an error.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return errors.New("reconciler already started: duplicate credential subscriptions are not allowed")
	}

	snap, err := r.cache.Load(ctx)
	if err != nil {
		// Cache trouble never blocks startup; the listener will rebuild.
		r.logger.WarnContext(ctx, "session cache load failed", "error", err)
	}
	if snap != nil {
		r.session = domainauth.SessionFromSnapshot(*snap)
	}

	if err := r.gateway.SubscribeCredentialChanges(r.onCredentialChange); err != nil {
		return fmt.Errorf("subscribe credential changes: %w", err)
	}
	r.started = true
	return nil
}

// Session returns a copy of the current session, or nil when
// unauthenticated. Callers treat it as read-only.
func (r *Reconciler) Session() *domainauth.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return nil
	}
	copied := *r.session
	return &copied
}

// onCredentialChange is the passive listener. Events are serialized; each
// one runs the full validation → directory cross-check → session mutation
// pipeline to completion before the next is admitted.
func (r *Reconciler) onCredentialChange(ctx context.Context, cred *domainauth.Credential) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cred == nil {
		r.session = nil
		if err := r.cache.Clear(ctx); err != nil {
			r.logger.ErrorContext(ctx, "clear session cache", "error", err)
		}
		return
	}

	if r.session != nil && r.session.UID == cred.ID {
		// Same principal: keep the session, attach the fresh handle. No
		// directory round-trip.
		r.session.AuthHandle = cred
		r.persistLocked(ctx)
		return
	}

	if !cred.EmailVerified {
		r.handleUnverified(ctx, cred)
		return
	}

	if !r.admission.Eligible(cred.Email) {
		r.count("portal.rejection", map[string]string{"reason": "domain"})
		r.notify.Show(MsgDomainRestricted)
		return
	}

	rec, ref, err := r.directory.FindOneByEmail(ctx, cred.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Authenticated but not provisioned: the passive path never
			// provisions, so the session simply stays absent.
			r.count("portal.rejection", map[string]string{"reason": "not_provisioned"})
			return
		}
		r.logger.ErrorContext(ctx, "directory lookup failed", "email", cred.Email, "error", err)
		return
	}

	r.router.SetView(view.Default())
	r.session = &domainauth.Session{Record: rec, AuthHandle: cred, DirectoryRef: ref}
	r.persistLocked(ctx)
	r.count("portal.admission", nil)
}

// handleUnverified revokes the credential and pushes the visitor toward
// email verification. The gateway sign-out always precedes any
// notification.
func (r *Reconciler) handleUnverified(ctx context.Context, cred *domainauth.Credential) {
	if err := r.gateway.SignOut(ctx); err != nil {
		r.logger.ErrorContext(ctx, "sign out unverified credential", "error", err)
	}

	err := r.gateway.SendVerification(ctx, cred)
	switch {
	case err == nil:
		r.notify.Show(MsgVerificationSent)
	case apperrors.IsRateLimited(err):
		r.notify.Show(MsgGatewayError)
	default:
		r.logger.ErrorContext(ctx, "send verification", "email", cred.Email, "error", err)
	}
	r.count("portal.rejection", map[string]string{"reason": "unverified"})
}

// SignIn runs the federated sign-in flow on explicit visitor action. A
// dismissed popup is a defined non-outcome: no notification, no state
// change. All other failures are logged, never surfaced; visitor-visible
// outcomes travel through the notification channel only.
//
// On an existing directory match this flow only switches the view; the
// passive listener completes session materialization when its own event
// for the same credential arrives.
func (r *Reconciler) SignIn(ctx context.Context) {
	cred, err := r.gateway.SignInInteractive(ctx)
	if err != nil {
		if apperrors.IsCancelled(err) {
			return
		}
		r.logger.ErrorContext(ctx, "interactive sign-in", "error", err)
		return
	}

	if !r.admission.Eligible(cred.Email) {
		r.count("portal.rejection", map[string]string{"reason": "domain"})
		r.notify.Show(MsgDomainRestricted)
		return
	}

	count, err := r.directory.CountByEmail(ctx, cred.Email)
	if err != nil {
		r.logger.ErrorContext(ctx, "directory count failed", "email", cred.Email, "error", err)
		return
	}

	if count == 0 {
		r.provision(ctx, cred)
	}
	r.router.SetView(view.Default())
}

// provision writes a new directory record for a federated principal.
// The write is fire-and-forget: the view switches without awaiting
// confirmation, and the passive listener converges the session later.
func (r *Reconciler) provision(ctx context.Context, cred *domainauth.Credential) {
	rec := domainauth.Record{
		UID:          cred.ID,
		Username:     cred.DisplayName,
		Email:        cred.Email,
		Phone:        cred.PhoneNumber,
		ProfileImage: cred.PhotoURL,
		Provider:     domainauth.ProviderGoogle,
	}

	bg := context.WithoutCancel(ctx)
	go func() {
		if _, err := r.directory.Insert(bg, rec); err != nil {
			r.logger.ErrorContext(bg, "provision directory record", "email", rec.Email, "error", err)
			return
		}
		r.count("portal.provisioned", nil)
	}()
}

// SignOut revokes the gateway credential and switches to the login view.
// The switch is optimistic: it happens even when revocation fails. Session
// destruction itself arrives through the listener's nil-credential event.
func (r *Reconciler) SignOut(ctx context.Context) {
	if err := r.gateway.SignOut(ctx); err != nil {
		r.logger.ErrorContext(ctx, "gateway sign-out", "error", err)
	}
	r.router.SetView(view.Login)
	r.count("portal.signout", nil)
}

// ProfileUpdate carries the client-writable attributes of a profile edit.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	Username     *string
	Phone        *string
	ProfileImage *string
}

// UpdateProfile applies a profile edit for the current principal, writes
// it through to the directory, and re-persists the snapshot. Federated
// principals cannot edit their record; the role tag is never writable here.
func (r *Reconciler) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return apperrors.Validation("no hay sesión activa")
	}
	if !r.session.CanEditProfile() {
		return apperrors.Validation("los perfiles federados no se pueden editar")
	}

	next := r.session.Record
	if update.Username != nil {
		next.Username = *update.Username
	}
	if update.Phone != nil {
		next.Phone = *update.Phone
	}
	if update.ProfileImage != nil {
		next.ProfileImage = *update.ProfileImage
	}

	ref := r.session.DirectoryRef
	if ref == "" {
		// A session rehydrated from the cache has no live handle yet.
		_, foundRef, err := r.directory.FindOneByEmail(ctx, r.session.Email)
		if err != nil {
			return fmt.Errorf("resolve directory record: %w", err)
		}
		ref = foundRef
	}

	if err := r.directory.UpdateByRef(ctx, ref, next); err != nil {
		return fmt.Errorf("update directory record: %w", err)
	}

	r.session.Record = next
	r.session.DirectoryRef = ref
	r.persistLocked(ctx)
	return nil
}

// persistLocked saves the snapshot of the current session. Callers hold
// r.mu. Persistence failures are logged, never fatal: the in-memory
// session stays authoritative for this process.
func (r *Reconciler) persistLocked(ctx context.Context) {
	if r.session == nil {
		return
	}
	if err := r.cache.Save(ctx, r.session.Snapshot()); err != nil {
		r.logger.ErrorContext(ctx, "persist session snapshot", "error", err)
	}
}

func (r *Reconciler) count(name string, tags map[string]string) {
	if r.metrics != nil {
		r.metrics.Count(name, 1, tags)
	}
}
