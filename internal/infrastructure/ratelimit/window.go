// Package ratelimit bounds upstream calls with a fixed-window counter.
//
// The window resets all at once when it ages out instead of decaying like a
// sliding log, so up to 2x quota calls can land around a window boundary.
// FDC accounts its hourly quota the same way.
package ratelimit

import (
	"sync"
	"time"
)

// DefaultWindow is the FDC quota period
const DefaultWindow = time.Hour

// Window is the state of the current counting period
type Window struct {
	Start time.Time
	Count int
}

// FixedWindow admits at most quota calls per window. It is shared by every
// kind of upstream call.
type FixedWindow struct {
	mu     sync.Mutex
	quota  int
	length time.Duration
	window Window
	now    func() time.Time
}

// NewFixedWindow creates a limiter admitting quota calls per hour.
// A nil clock uses time.Now.
func NewFixedWindow(quota int, now func() time.Time) *FixedWindow {
	return NewFixedWindowWithLength(quota, DefaultWindow, now)
}

// NewFixedWindowWithLength creates a limiter with a custom window length
func NewFixedWindowWithLength(quota int, length time.Duration, now func() time.Time) *FixedWindow {
	if now == nil {
		now = time.Now
	}
	if quota < 0 {
		quota = 0
	}
	return &FixedWindow{
		quota:  quota,
		length: length,
		window: Window{Start: now()},
		now:    now,
	}
}

// TryConsume takes one call from the current window. It returns false,
// without changing state, when the window is exhausted.
func (l *FixedWindow) TryConsume() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollLocked()
	if l.window.Count >= l.quota {
		return false
	}
	l.window.Count++
	return true
}

// Remaining returns how many calls the current window still admits
func (l *FixedWindow) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollLocked()
	return l.quota - l.window.Count
}

// Quota returns the per-window limit
func (l *FixedWindow) Quota() int {
	return l.quota
}

// Snapshot returns a copy of the current window
func (l *FixedWindow) Snapshot() Window {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollLocked()
	return l.window
}

// Reset starts a fresh window now
func (l *FixedWindow) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.window = Window{Start: l.now()}
}

func (l *FixedWindow) rollLocked() {
	now := l.now()
	if now.Sub(l.window.Start) >= l.length {
		l.window = Window{Start: now}
	}
}
