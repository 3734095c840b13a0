package tour

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cetra-app/cetra/internal/logging"
	"github.com/cetra-app/cetra/internal/prefs"
)

func instant(def Definition) Definition {
	def.StartDelay = 0
	return def
}

func TestLauncherAutoStartsOnce(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewStore(nil, logging.Discard())
	launcher := NewLauncher(store)

	first := launcher.New(instant(Dashboard))
	started, err := launcher.AutoStart(ctx, first)
	if err != nil || !started || !first.Active() {
		t.Fatalf("expected first visit to start the tour, started=%v err=%v", started, err)
	}
	for first.Active() {
		first.Next()
	}
	if !store.TourCompleted(ctx, prefs.KeyDashboardTour) {
		t.Fatal("completion flag not persisted")
	}

	remount := launcher.New(instant(Dashboard))
	started, err = launcher.AutoStart(ctx, remount)
	if err != nil || started || remount.Active() {
		t.Fatal("completed tour auto-started again")
	}

	launcher.Replay(ctx, remount)
	if !remount.Active() || remount.Index() != 0 {
		t.Fatal("replay must start from the first step")
	}
	if launcher.Completed(ctx, Dashboard) {
		t.Fatal("replay must clear the completion flag")
	}
	remount.Finish()
	if !launcher.Completed(ctx, Dashboard) {
		t.Fatal("skipping a replayed tour must persist the flag again")
	}
}

func TestLauncherToursAreIndependent(t *testing.T) {
	ctx := context.Background()
	launcher := NewLauncher(prefs.NewStore(nil, logging.Discard()))

	builder := launcher.New(instant(Builder))
	if _, err := launcher.AutoStart(ctx, builder); err != nil {
		t.Fatalf("autostart: %v", err)
	}
	builder.Finish()

	if launcher.Completed(ctx, CardSettings) || launcher.Completed(ctx, Dashboard) {
		t.Fatal("finishing one tour marked another complete")
	}
}

func TestLauncherAutoStartHonoursContext(t *testing.T) {
	launcher := NewLauncher(prefs.NewStore(nil, logging.Discard()))
	def := Dashboard
	def.StartDelay = time.Hour
	tr := launcher.New(def)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	started, err := launcher.AutoStart(ctx, tr)
	if started || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got started=%v err=%v", started, err)
	}
	if tr.Active() {
		t.Fatal("tour started after cancellation")
	}
}
