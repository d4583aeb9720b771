package auth

import (
	"context"
	"sync"
	"time"

	"walletgate/pkg/metrics"
)

// ReplayGuard rejects reuse of a previously accepted nonce. CheckAndRecord
// must be atomic: two concurrent requests carrying the same nonce must not
// both be accepted.
type ReplayGuard interface {
	CheckAndRecord(ctx context.Context, nonce string) (bool, error)
}

// NonceGuard is the in-process ReplayGuard: a mutex-guarded set cleared
// wholesale on a fixed interval rather than per-entry expiry.
//
// Consequences, documented rather than patched: a nonce is only guaranteed
// unique since the last clear, so the true replay-safety window lies between
// half and one full clear interval; and the set grows unbounded between
// clears under high volume (capping it would turn capacity pressure into
// false replay rejections, which is worse).
type NonceGuard struct {
	interval time.Duration

	mu   sync.Mutex
	seen map[string]struct{}

	stop chan struct{}
	once sync.Once
}

// NewNonceGuard builds a guard with the given clear interval. Call Start to
// begin the clear timer and Stop at shutdown.
func NewNonceGuard(interval time.Duration) *NonceGuard {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &NonceGuard{
		interval: interval,
		seen:     make(map[string]struct{}),
		stop:     make(chan struct{}),
	}
}

// Start launches the background clear loop. The goroutine exits on Stop and
// never keeps the process alive on its own.
func (g *NonceGuard) Start() {
	go func() {
		t := time.NewTicker(g.interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				g.Clear()
			case <-g.stop:
				return
			}
		}
	}()
}

// Stop terminates the clear loop. Safe to call more than once.
func (g *NonceGuard) Stop() {
	g.once.Do(func() { close(g.stop) })
}

// CheckAndRecord accepts the nonce if unseen since the last clear and records
// it, as a single atomic step.
func (g *NonceGuard) CheckAndRecord(_ context.Context, nonce string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, dup := g.seen[nonce]; dup {
		return false, nil
	}
	g.seen[nonce] = struct{}{}
	metrics.NonceSetSize.Set(float64(len(g.seen)))
	return true, nil
}

// Clear drops the whole set. Exported for tests exercising the window
// boundary behavior.
func (g *NonceGuard) Clear() {
	g.mu.Lock()
	g.seen = make(map[string]struct{})
	g.mu.Unlock()
	metrics.NonceSetSize.Set(0)
}

// Len reports the current set size, a capacity observability hook.
func (g *NonceGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
