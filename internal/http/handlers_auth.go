package httpx

import (
	"log/slog"
	"net/http"
)

// AuthHandlers provides HTTP handlers for sign-in and sign-out. Both
// endpoints resolve to the shell state; failures inside the flows surface
// through the notification slot, not through HTTP errors.
type AuthHandlers struct {
	Shell  *ShellHandlers
	Logger *slog.Logger
}

// SignIn handles POST /auth/signin. It runs the federated sign-in flow to
// completion and returns the resulting shell state.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	h.Shell.Reconciler.SignIn(r.Context())
	WriteJSON(w, http.StatusOK, h.Shell.state())
}

// SignOut handles POST /auth/signout.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	h.Shell.Reconciler.SignOut(r.Context())
	WriteJSON(w, http.StatusOK, h.Shell.state())
}
