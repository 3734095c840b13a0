package tour

import (
	"context"
	"sync"
	"time"
)

// missesBeforePrepare is how many failed lookups in a row trigger another
// run of the step's prepare hooks.
const missesBeforePrepare = 5

// Locator measures the element matching target. ok is false when no such
// element exists.
type Locator interface {
	Locate(ctx context.Context, target string) (rect Rect, ok bool)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context, target string) (Rect, bool)

func (f LocatorFunc) Locate(ctx context.Context, target string) (Rect, bool) {
	return f(ctx, target)
}

// Frame is everything needed to draw the overlay for one moment. A hidden
// frame means nothing should be drawn.
type Frame struct {
	Visible bool  `json:"visible"`
	Index   int   `json:"index"`
	Step    Step  `json:"step"`
	Side    Side  `json:"side,omitempty"`
	Target  Rect  `json:"target"`
	Tooltip Point `json:"tooltip"`
	Arrow   Point `json:"arrow"`
}

// Tracker keeps the current step's tooltip attached to its target. It
// recomputes on Notify (resize, scroll) and on the tour's poll interval,
// because targets can move without either event firing.
type Tracker struct {
	tour     *Tour
	locator  Locator
	viewport func() Viewport
	onFrame  func(Frame)
	notify   chan struct{}

	mu        sync.Mutex
	frame     Frame
	misses    int
	lastIndex int
}

// NewTracker builds a tracker. onFrame, when set, receives every computed frame.
func NewTracker(t *Tour, locator Locator, viewport func() Viewport, onFrame func(Frame)) *Tracker {
	return &Tracker{
		tour:      t,
		locator:   locator,
		viewport:  viewport,
		onFrame:   onFrame,
		notify:    make(chan struct{}, 1),
		lastIndex: -1,
	}
}

// Notify requests a recompute. It never blocks; bursts collapse into one.
func (tr *Tracker) Notify() {
	select {
	case tr.notify <- struct{}{}:
	default:
	}
}

// Frame returns the last computed frame.
func (tr *Tracker) Frame() Frame {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.frame
}

// Update measures the target once and returns the new frame. A missing or
// empty target hides the overlay; every fifth miss in a row re-runs the
// step's prepare hooks so collapsed sections get another chance to open.
func (tr *Tracker) Update(ctx context.Context) Frame {
	step, index, active := tr.tour.current()

	var frame Frame
	rePrepare := false
	if active {
		rect, found := tr.locator.Locate(ctx, step.Target)

		tr.mu.Lock()
		if index != tr.lastIndex {
			tr.lastIndex = index
			tr.misses = 0
		}
		if found && !rect.Empty() {
			tr.misses = 0
			vp := tr.viewport()
			layout := tr.tour.def.Layout
			side := ResolvePlacement(rect, vp, step.Placement, layout)
			frame = Frame{
				Visible: true,
				Index:   index,
				Step:    step,
				Side:    side,
				Target:  rect,
				Tooltip: TooltipPosition(rect, vp, side, layout),
				Arrow:   ArrowPosition(rect, side, layout),
			}
		} else {
			tr.misses++
			rePrepare = tr.misses%missesBeforePrepare == 0
			frame = Frame{Index: index, Step: step}
		}
		tr.frame = frame
		tr.mu.Unlock()
	} else {
		tr.mu.Lock()
		tr.frame = frame
		tr.lastIndex = -1
		tr.misses = 0
		tr.mu.Unlock()
	}

	if rePrepare {
		tr.tour.Prepare()
	}
	if tr.onFrame != nil {
		tr.onFrame(frame)
	}
	return frame
}

// Run recomputes frames until ctx is cancelled. The first measurement waits
// for the tour's settle delay.
func (tr *Tracker) Run(ctx context.Context) error {
	interval := tr.tour.def.PollInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	if delay := tr.tour.def.SettleDelay; delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	tr.Update(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tr.Update(ctx)
		case <-tr.notify:
			tr.Update(ctx)
		}
	}
}
