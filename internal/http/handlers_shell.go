package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
	"github.com/vive-avila/ui-api/internal/domain/view"
	apperrors "github.com/vive-avila/ui-api/internal/errors"
	"github.com/vive-avila/ui-api/internal/service"
)

// ShellHandlers serves the portal shell state: the active view, the
// current session, and the notification slot.
type ShellHandlers struct {
	Reconciler    *service.Reconciler
	Router        *service.Router
	Notifications *service.NotificationChannel
	Logger        *slog.Logger
}

// ShellState is the JSON representation of the portal shell.
type ShellState struct {
	View          string               `json:"view"`
	Path          string               `json:"path"`
	Authenticated bool                 `json:"authenticated"`
	User          *domainauth.Snapshot `json:"user,omitempty"`
	Notification  string               `json:"notification,omitempty"`
}

func (h *ShellHandlers) state() ShellState {
	st := ShellState{
		View:         string(h.Router.Current()),
		Notification: h.Notifications.Current(),
	}
	if sess := h.Reconciler.Session(); sess != nil {
		snap := sess.Snapshot()
		st.Authenticated = true
		st.User = &snap
	}
	return st
}

// Shell handles GET / and GET /{view}. Unknown paths resolve to the
// default view rather than a 404, matching single-page navigation.
func (h *ShellHandlers) Shell(w http.ResponseWriter, r *http.Request) {
	v, displayPath, _ := view.FromPath(r.URL.Path)
	h.Router.SetView(v)

	st := h.state()
	st.View = string(v)
	st.Path = displayPath
	WriteJSON(w, http.StatusOK, st)
}

// Session handles GET /session.
func (h *ShellHandlers) Session(w http.ResponseWriter, _ *http.Request) {
	st := h.state()
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": st.Authenticated,
		"user":          st.User,
	})
}

// Notification handles GET /notification.
func (h *ShellHandlers) Notification(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"message": h.Notifications.Current(),
	})
}

// setViewRequest is the body for POST /view.
type setViewRequest struct {
	View string `json:"view"`
}

// SetView handles POST /view.
func (h *ShellHandlers) SetView(w http.ResponseWriter, r *http.Request) {
	var req setViewRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	v := view.View(req.View)
	if !v.Valid() {
		WriteAppError(w, apperrors.ValidationField("view", "unknown view "+req.View))
		return
	}

	h.Router.SetView(v)
	WriteJSON(w, http.StatusOK, h.state())
}

// profileUpdateRequest is the body for PUT /profile. Absent fields are
// left unchanged.
type profileUpdateRequest struct {
	Username     *string `json:"username"`
	Phone        *string `json:"phone"`
	ProfileImage *string `json:"profileImage"`
}

// UpdateProfile handles PUT /profile.
func (h *ShellHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	err := h.Reconciler.UpdateProfile(r.Context(), service.ProfileUpdate{
		Username:     req.Username,
		Phone:        req.Phone,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, h.state())
}
