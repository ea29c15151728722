package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vive-avila/ui-api/internal/domain/view"
)

func TestNewRouter_ResolvesStartingView(t *testing.T) {
	r, display := NewRouter("/aboutUs")
	assert.Equal(t, view.AboutUs, r.Current())
	assert.Equal(t, "/aboutUs", display)
}

func TestNewRouter_NormalizesUnknownSegment(t *testing.T) {
	r, display := NewRouter("/no-such-page")
	assert.Equal(t, view.Home, r.Current())
	assert.Equal(t, "/", display)
}

func TestRouter_SetView(t *testing.T) {
	r, _ := NewRouter("/")
	r.SetView(view.Login)
	assert.Equal(t, view.Login, r.Current())

	// values outside the enumerated set are ignored
	r.SetView(view.View("dashboard"))
	assert.Equal(t, view.Login, r.Current())
}
