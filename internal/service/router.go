package service

import (
	"sync"

	"github.com/vive-avila/ui-api/internal/domain/view"
)

// Router holds the currently displayed view. The starting view comes from
// the visited URL once at startup; afterwards the view changes only by
// explicit request. There is no history stack.
type Router struct {
	mu      sync.RWMutex
	current view.View
}

// NewRouter resolves the starting view from the initial URL path and
// returns the router together with the path the visitor should see
// (unknown segments normalize to "/").
func NewRouter(initialPath string) (*Router, string) {
	v, displayPath, _ := view.FromPath(initialPath)
	return &Router{current: v}, displayPath
}

// Current returns the displayed view.
func (r *Router) Current() view.View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// SetView switches the displayed view. The switch is purely in-memory and
// is not validated against the session: each non-public view receives the
// session and makes its own access decision.
func (r *Router) SetView(v view.View) {
	if !v.Valid() {
		return
	}
	r.mu.Lock()
	r.current = v
	r.mu.Unlock()
}
