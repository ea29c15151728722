package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
	"github.com/vive-avila/ui-api/internal/domain/view"
	apperrors "github.com/vive-avila/ui-api/internal/errors"
)

func TestSignIn_DismissedPopupIsANonOutcome(t *testing.T) {
	f := newFixture(t)
	f.gw.SignInFunc = func(context.Context) (*domainauth.Credential, error) {
		return nil, apperrors.Cancelled("popup closed")
	}

	f.rec.SignIn(context.Background())

	assert.Empty(t, f.notify.Current())
	assert.Equal(t, view.Login, f.router.Current())
	assert.Nil(t, f.rec.Session())
}

func TestSignIn_GatewayFailureStaysSilent(t *testing.T) {
	f := newFixture(t)
	f.gw.SignInFunc = func(context.Context) (*domainauth.Credential, error) {
		return nil, errors.New("network unreachable")
	}

	f.rec.SignIn(context.Background())

	assert.Empty(t, f.notify.Current())
	assert.Equal(t, view.Login, f.router.Current())
}

func TestSignIn_IneligibleDomainIsRejected(t *testing.T) {
	f := newFixture(t)
	f.gw.SignInFunc = func(context.Context) (*domainauth.Credential, error) {
		return verifiedCredential("x@gmail.com"), nil
	}

	f.rec.SignIn(context.Background())

	assert.Equal(t, MsgDomainRestricted, f.notify.Current())
	assert.Equal(t, view.Login, f.router.Current())
	assert.Zero(t, f.dir.Inserts())
}

func TestSignIn_ExistingRecordSwitchesViewOnly(t *testing.T) {
	f := newFixture(t)
	cred := verifiedCredential("x@unimet.edu.ve")
	f.dir.Seed(domainauth.Record{UID: cred.ID, Email: cred.Email})
	f.gw.SignInFunc = func(context.Context) (*domainauth.Credential, error) {
		return cred, nil
	}

	f.rec.SignIn(context.Background())

	assert.Equal(t, view.Home, f.router.Current())
	assert.Nil(t, f.rec.Session(), "the listener, not this flow, materializes the session")
	assert.Zero(t, f.dir.Inserts())
}

func TestSignIn_ProvisionsUnknownPrincipal(t *testing.T) {
	f := newFixture(t)
	cred := verifiedCredential("new@correo.unimet.edu.ve")
	cred.PhoneNumber = "+58-212-5550000"
	f.gw.SignInFunc = func(context.Context) (*domainauth.Credential, error) {
		return cred, nil
	}

	f.rec.SignIn(context.Background())

	assert.Equal(t, view.Home, f.router.Current(), "view switches without awaiting the write")
	require.Eventually(t, func() bool { return f.dir.Inserts() == 1 }, time.Second, 5*time.Millisecond)

	rec, _, err := f.dir.FindOneByEmail(context.Background(), cred.Email)
	require.NoError(t, err)
	assert.Equal(t, cred.ID, rec.UID)
	assert.Equal(t, cred.DisplayName, rec.Username)
	assert.Equal(t, cred.PhoneNumber, rec.Phone)
	assert.Equal(t, domainauth.ProviderGoogle, rec.Provider)
	assert.Equal(t, domainauth.RoleStudent, rec.Role, "provisioned records carry no role tag")
}

func TestSignIn_DirectoryCountFailureStaysPut(t *testing.T) {
	f := newFixture(t)
	f.gw.SignInFunc = func(context.Context) (*domainauth.Credential, error) {
		return verifiedCredential("x@unimet.edu.ve"), nil
	}
	boom := errors.New("connection reset")
	rec := NewReconciler(ReconcilerOptions{
		Gateway:   f.gw,
		Directory: failingCounter{err: boom},
		Shell:     ShellDeps{Cache: f.cache, Router: f.router, Notifications: f.notify},
	})

	rec.SignIn(context.Background())

	assert.Equal(t, view.Login, f.router.Current())
	assert.Empty(t, f.notify.Current())
}

func TestSignIn_ConvergesWithListener(t *testing.T) {
	f := newFixture(t)
	cred := verifiedCredential("new@unimet.edu.ve")
	f.gw.SignInFunc = func(context.Context) (*domainauth.Credential, error) {
		return cred, nil
	}

	f.rec.SignIn(context.Background())
	require.Eventually(t, func() bool { return f.dir.Inserts() == 1 }, time.Second, 5*time.Millisecond)

	// The listener's own event for the same credential completes the
	// session.
	f.gw.Emit(context.Background(), cred)

	sess := f.rec.Session()
	require.NotNil(t, sess)
	assert.Equal(t, cred.ID, sess.UID)
	assert.Equal(t, domainauth.ProviderGoogle, sess.Provider)
}

func TestSignOut_OptimisticViewSwitch(t *testing.T) {
	f := newFixture(t)
	f.router.SetView(view.Home)
	f.gw.SignOutFunc = func(context.Context) error { return errors.New("revocation endpoint down") }

	f.rec.SignOut(context.Background())

	assert.Equal(t, view.Login, f.router.Current(), "view switches even when revocation fails")
	assert.Equal(t, 1, f.gw.SignOutCalls())
}

// failingCounter is a directory whose count always fails; the other
// methods are unreachable in the tests that use it.
type failingCounter struct {
	err error
}

func (f failingCounter) FindOneByEmail(context.Context, string) (domainauth.Record, string, error) {
	panic("unexpected FindOneByEmail")
}

func (f failingCounter) CountByEmail(context.Context, string) (int, error) { return 0, f.err }

func (f failingCounter) Insert(context.Context, domainauth.Record) (string, error) {
	panic("unexpected Insert")
}

func (f failingCounter) UpdateByRef(context.Context, string, domainauth.Record) error {
	panic("unexpected UpdateByRef")
}
