package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
	mocksauth "github.com/vive-avila/ui-api/internal/mocks/auth"
	"github.com/vive-avila/ui-api/internal/service"
)

type serverFixture struct {
	handler http.Handler
	gw      *mocksauth.ScriptedGateway
	dir     *mocksauth.MemoryDirectory
	rec     *service.Reconciler
	router  *service.Router
	notify  *service.NotificationChannel
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	f := &serverFixture{
		gw:  mocksauth.NewScriptedGateway(),
		dir: mocksauth.NewMemoryDirectory(),
	}
	f.router, _ = service.NewRouter("/login")
	f.notify = service.NewNotificationChannel(time.Minute)
	f.rec = service.NewReconciler(service.ReconcilerOptions{
		Gateway:   f.gw,
		Directory: f.dir,
		Shell: service.ShellDeps{
			Cache:         mocksauth.NewMemorySessionCache(),
			Router:        f.router,
			Notifications: f.notify,
		},
	})
	require.NoError(t, f.rec.Start(context.Background()))

	f.handler = NewRouter(RouterServices{
		Reconciler:    f.rec,
		Router:        f.router,
		Notifications: f.notify,
	})
	return f
}

func (f *serverFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decodeState(t *testing.T, rr *httptest.ResponseRecorder) ShellState {
	t.Helper()
	var st ShellState
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&st))
	return st
}

func (f *serverFixture) signIn(t *testing.T, email string) *domainauth.Credential {
	t.Helper()
	cred := &domainauth.Credential{
		ID:            "uid-" + email,
		Email:         email,
		EmailVerified: true,
		DisplayName:   "Test Visitor",
	}
	f.dir.Seed(domainauth.Record{UID: cred.ID, Email: cred.Email, Username: "Test Visitor"})
	f.gw.Emit(context.Background(), cred)
	return cred
}

func TestHealthz(t *testing.T) {
	f := newServerFixture(t)
	rr := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestShell_RootServesHome(t *testing.T) {
	f := newServerFixture(t)
	rr := f.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)

	st := decodeState(t, rr)
	assert.Equal(t, "home", st.View)
	assert.Equal(t, "/", st.Path)
	assert.False(t, st.Authenticated)
}

func TestShell_KnownViewPath(t *testing.T) {
	f := newServerFixture(t)
	rr := f.do(t, http.MethodGet, "/blogGuide", "")
	require.Equal(t, http.StatusOK, rr.Code)

	st := decodeState(t, rr)
	assert.Equal(t, "blogGuide", st.View)
	assert.Equal(t, "/blogGuide", st.Path)
}

func TestShell_UnknownPathNormalizesToRoot(t *testing.T) {
	f := newServerFixture(t)
	rr := f.do(t, http.MethodGet, "/no-such-view", "")
	require.Equal(t, http.StatusOK, rr.Code)

	st := decodeState(t, rr)
	assert.Equal(t, "home", st.View)
	assert.Equal(t, "/", st.Path)
}

func TestSession_Unauthenticated(t *testing.T) {
	f := newServerFixture(t)
	rr := f.do(t, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, false, resp["authenticated"])
}

func TestSession_AfterCredentialEvent(t *testing.T) {
	f := newServerFixture(t)
	f.signIn(t, "x@unimet.edu.ve")

	rr := f.do(t, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Authenticated bool                `json:"authenticated"`
		User          domainauth.Snapshot `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Authenticated)
	assert.Equal(t, "x@unimet.edu.ve", resp.User.Email)
}

func TestSetView(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do(t, http.MethodPost, "/view", `{"view":"aboutUs"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "aboutUs", decodeState(t, rr).View)

	rr = f.do(t, http.MethodPost, "/view", `{"view":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotification_AfterDomainRejection(t *testing.T) {
	f := newServerFixture(t)
	f.gw.Emit(context.Background(), &domainauth.Credential{
		ID: "uid-1", Email: "x@gmail.com", EmailVerified: true,
	})

	rr := f.do(t, http.MethodGet, "/notification", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, service.MsgDomainRestricted, resp["message"])
}

func TestSignIn_SwitchesViewWithoutSession(t *testing.T) {
	f := newServerFixture(t)
	cred := &domainauth.Credential{ID: "uid-1", Email: "x@unimet.edu.ve", EmailVerified: true}
	f.dir.Seed(domainauth.Record{UID: cred.ID, Email: cred.Email})
	f.gw.SignInFunc = func(context.Context) (*domainauth.Credential, error) {
		return cred, nil
	}

	rr := f.do(t, http.MethodPost, "/auth/signin", "")
	require.Equal(t, http.StatusOK, rr.Code)

	st := decodeState(t, rr)
	assert.Equal(t, "home", st.View)
	assert.False(t, st.Authenticated, "session arrives with the listener event, not the response")
}

func TestSignOut_SwitchesToLogin(t *testing.T) {
	f := newServerFixture(t)
	f.signIn(t, "x@unimet.edu.ve")

	rr := f.do(t, http.MethodPost, "/auth/signout", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "login", decodeState(t, rr).View)
}

func TestUpdateProfile(t *testing.T) {
	f := newServerFixture(t)
	f.signIn(t, "x@unimet.edu.ve")

	rr := f.do(t, http.MethodPut, "/profile", `{"username":"Nuevo Nombre"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	st := decodeState(t, rr)
	require.NotNil(t, st.User)
	assert.Equal(t, "Nuevo Nombre", st.User.Username)
}

func TestUpdateProfile_WithoutSession(t *testing.T) {
	f := newServerFixture(t)
	rr := f.do(t, http.MethodPut, "/profile", `{"username":"Nadie"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateProfile_RejectsUnknownFields(t *testing.T) {
	f := newServerFixture(t)
	f.signIn(t, "x@unimet.edu.ve")

	rr := f.do(t, http.MethodPut, "/profile", `{"role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
