package tour

import (
	"context"
	"time"

	"github.com/cetra-app/cetra/internal/prefs"
)

// Launcher starts tours once per profile. Finishing a tour it created stores
// the tour's completion flag; Replay clears the flag and starts over.
type Launcher struct {
	prefs *prefs.Store
}

// NewLauncher binds tours to store.
func NewLauncher(store *prefs.Store) *Launcher {
	return &Launcher{prefs: store}
}

// New builds a tour whose completion is persisted.
func (l *Launcher) New(def Definition, opts ...Option) *Tour {
	persist := OnComplete(func() {
		l.prefs.SetTourCompleted(context.Background(), def.CompletionKey)
	})
	return New(def, append([]Option{persist}, opts...)...)
}

// Completed reports whether def has been finished on this profile.
func (l *Launcher) Completed(ctx context.Context, def Definition) bool {
	return l.prefs.TourCompleted(ctx, def.CompletionKey)
}

// AutoStart starts t after its start delay unless it was already completed.
// It returns false without starting when the flag is set, and ctx.Err() if
// ctx ends during the delay.
func (l *Launcher) AutoStart(ctx context.Context, t *Tour) (bool, error) {
	if l.Completed(ctx, t.def) {
		return false, nil
	}
	if delay := t.def.StartDelay; delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C:
		}
	}
	t.Start()
	return true, nil
}

// Replay clears the completion flag and starts t immediately.
func (l *Launcher) Replay(ctx context.Context, t *Tour) {
	l.prefs.ClearTourCompleted(ctx, t.def.CompletionKey)
	t.Start()
}
