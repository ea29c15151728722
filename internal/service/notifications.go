package service

import (
	"sync"
	"time"
)

// DefaultNotificationDelay is how long a notification stays visible.
const DefaultNotificationDelay = 5 * time.Second

// NotificationChannel is a single-slot transient message display. Show
// replaces any pending message and restarts the expiry timer, so the latest
// message always wins and always expires exactly one delay after the call
// that made it current.
type NotificationChannel struct {
	delay time.Duration

	mu  sync.Mutex
	msg string
	gen uint64
}

// NewNotificationChannel creates a channel with the given expiry delay.
// Non-positive delays fall back to DefaultNotificationDelay.
func NewNotificationChannel(delay time.Duration) *NotificationChannel {
	if delay <= 0 {
		delay = DefaultNotificationDelay
	}
	return &NotificationChannel{delay: delay}
}

// Show sets the current message and schedules its expiry. An earlier
// pending expiry becomes a no-op: each timer only clears the message it was
// scheduled for.
func (n *NotificationChannel) Show(message string) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.msg = message
	n.mu.Unlock()

	time.AfterFunc(n.delay, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.gen == gen {
			n.msg = ""
		}
	})
}

// Current returns the live message, or "" when the slot is empty.
func (n *NotificationChannel) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.msg
}
