package service

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRateLimited se devuelve cuando un cliente supera la cuota de exportaciones.
var ErrRateLimited = errors.New("too many exports, try again later")

// ExportRateLimiter limita la frecuencia de exportaciones PDF por clave.
// Cuando rechaza, retryAfter indica cuánto falta para que se libere un cupo
// (cero si no se sabe).
type ExportRateLimiter interface {
	Allow(ctx context.Context, key string) (ok bool, retryAfter time.Duration)
}

type exportRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewExportRateLimiter crea un rate limiter en memoria con ventana deslizante.
func NewExportRateLimiter(window time.Duration, max int) ExportRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &exportRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (l *exportRateLimiter) Allow(_ context.Context, key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now().UTC()
	cutoff := now.Add(-l.window)

	// drop idle keys
	for k, entries := range l.hits {
		if k != key && len(entries) > 0 && !entries[len(entries)-1].After(cutoff) {
			delete(l.hits, k)
		}
	}

	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		// the oldest hit leaves the window first
		return false, kept[0].Add(l.window).Sub(now)
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true, 0
}
