// Package activity keeps the short per-user log shown next to the upload form
package activity

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v2"
)

const maxLines = 200

// Log stores lines per user, newest first. A user's log expires ttl after
// the last write, reading it doesn't keep it alive.
type Log struct {
	mu    sync.Mutex
	cache *ttlcache.Cache
}

func New(ttl time.Duration) *Log {
	c := ttlcache.NewCache()
	c.SetTTL(ttl)
	c.SkipTTLExtensionOnHit(true)

	return &Log{cache: c}
}

// Add prepends line to the user's log
func (l *Log) Add(userID, line string) {
	if userID == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	lines := append([]string{line}, l.lines(userID)...)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	l.cache.Set(userID, lines)
}

// Reset drops everything logged for the user, the page does this on sign in
func (l *Log) Reset(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache.Remove(userID)
}

// Lines returns a copy of the user's log, newest line first
func (l *Log) Lines(userID string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines := l.lines(userID)
	out := make([]string, len(lines))
	copy(out, lines)

	return out
}

func (l *Log) Close() error {
	return l.cache.Close()
}

func (l *Log) lines(userID string) []string {
	v, err := l.cache.Get(userID)
	if err != nil {
		return nil
	}

	lines, _ := v.([]string)
	return lines
}
