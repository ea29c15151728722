package config

import "time"

// SessionConfig controls the cached session and the in-process notification channel.
type SessionConfig struct {
	// CacheKey is the Redis key the persisted session snapshot lives under.
	CacheKey string `env:"SESSION_CACHE_KEY" envDefault:"vive-avila:session"`

	// NotificationDelay is how long a user-facing notification stays visible
	// before it expires on its own.
	NotificationDelay time.Duration `env:"NOTIFICATION_DELAY" envDefault:"5s"`

	// InitialPath is the path the view router starts on before any navigation.
	InitialPath string `env:"INITIAL_PATH" envDefault:"/"`
}

// Sanitize enforces safe defaults on session configuration.
func (c *SessionConfig) Sanitize() {
	if c.CacheKey == "" {
		c.CacheKey = "vive-avila:session"
	}
	if c.NotificationDelay <= 0 {
		c.NotificationDelay = 5 * time.Second
	}
	if c.InitialPath == "" {
		c.InitialPath = "/"
	}
}
