// Package tour drives the onboarding walkthroughs: the step state machine,
// tooltip geometry and the tracker that keeps a tooltip attached to its
// target while the page moves.
package tour

import (
	"sync"
	"time"

	"github.com/cetra-app/cetra/internal/i18n"
)

// Step is one highlighted element.
type Step struct {
	Target         string `json:"target"`
	TitleKey       string `json:"titleKey"`
	DescriptionKey string `json:"descriptionKey"`
	Placement      Side   `json:"placement"`
	// ExpandSection names a collapsed section to open before the target can render.
	ExpandSection string `json:"expandSection,omitempty"`
	// RequireAdvanced switches on advanced mode before the step is shown.
	RequireAdvanced bool `json:"requireAdvanced,omitempty"`
}

// Title resolves the step title in lang.
func (s Step) Title(lang string) string { return i18n.Translate(lang, s.TitleKey, nil) }

// Description resolves the step body in lang.
func (s Step) Description(lang string) string {
	return i18n.Translate(lang, s.DescriptionKey, nil)
}

// Definition describes one tour.
type Definition struct {
	Name          string
	CompletionKey string
	Steps         []Step
	Layout        Layout
	PollInterval  time.Duration
	// StartDelay is the pause before an automatic start.
	StartDelay time.Duration
	// SettleDelay is the pause before the first measurement of a new step.
	SettleDelay time.Duration
}

// Option configures a Tour.
type Option func(*Tour)

// OnPrepare runs fn whenever a step becomes current, and again when the
// tracker keeps failing to find its target.
func OnPrepare(fn func(Step)) Option {
	return func(t *Tour) { t.prepare = append(t.prepare, fn) }
}

// OnEnableAdvanced runs fn before any step that needs advanced mode.
func OnEnableAdvanced(fn func()) Option {
	return OnPrepare(func(s Step) {
		if s.RequireAdvanced {
			fn()
		}
	})
}

// OnExpandSection runs fn with the section a step needs opened.
func OnExpandSection(fn func(section string)) Option {
	return OnPrepare(func(s Step) {
		if s.ExpandSection != "" {
			fn(s.ExpandSection)
		}
	})
}

// OnComplete runs fn when the tour finishes or is skipped.
func OnComplete(fn func()) Option {
	return func(t *Tour) { t.complete = append(t.complete, fn) }
}

// OnStepChange runs fn with the new index whenever the current step changes.
func OnStepChange(fn func(index int)) Option {
	return func(t *Tour) { t.changed = append(t.changed, fn) }
}

// Tour is the step state machine. It is safe for concurrent use; hooks run
// outside the lock.
type Tour struct {
	def Definition

	mu     sync.Mutex
	index  int
	active bool

	prepare  []func(Step)
	complete []func()
	changed  []func(int)
}

// New builds an inactive tour.
func New(def Definition, opts ...Option) *Tour {
	t := &Tour{def: def}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Definition returns the tour's definition.
func (t *Tour) Definition() Definition { return t.def }

// Len is the number of steps.
func (t *Tour) Len() int { return len(t.def.Steps) }

// Start activates the tour at the first step.
func (t *Tour) Start() {
	if len(t.def.Steps) == 0 {
		return
	}
	t.mu.Lock()
	t.index = 0
	t.active = true
	t.mu.Unlock()
	t.enter(0)
}

// Next advances one step, finishing the tour on the last one.
func (t *Tour) Next() {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	if t.index >= len(t.def.Steps)-1 {
		t.mu.Unlock()
		t.Finish()
		return
	}
	t.index++
	idx := t.index
	t.mu.Unlock()
	t.enter(idx)
}

// Back returns to the previous step. It does nothing on the first step.
func (t *Tour) Back() {
	t.mu.Lock()
	if !t.active || t.index == 0 {
		t.mu.Unlock()
		return
	}
	t.index--
	idx := t.index
	t.mu.Unlock()
	t.enter(idx)
}

// Finish resets to the first step, deactivates and fires completion hooks.
// Skipping a tour finishes it.
func (t *Tour) Finish() {
	t.mu.Lock()
	wasActive := t.active
	t.index = 0
	t.active = false
	t.mu.Unlock()
	if !wasActive {
		return
	}
	for _, fn := range t.complete {
		fn()
	}
}

// Prepare re-runs the prepare hooks for the current step.
func (t *Tour) Prepare() {
	step, ok := t.Step()
	if !ok {
		return
	}
	for _, fn := range t.prepare {
		fn(step)
	}
}

// Step returns the current step while the tour is active.
func (t *Tour) Step() (Step, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return Step{}, false
	}
	return t.def.Steps[t.index], true
}

func (t *Tour) current() (Step, int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return Step{}, t.index, false
	}
	return t.def.Steps[t.index], t.index, true
}

// Index is the current step index.
func (t *Tour) Index() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index
}

// Active reports whether the tour is showing.
func (t *Tour) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// NextLabelKey is the translation key for the forward button.
func (t *Tour) NextLabelKey() string {
	if t.Index() == len(t.def.Steps)-1 {
		return "tour.finish"
	}
	return "tour.next"
}

// Counter renders "current / total" for lang.
func (t *Tour) Counter(lang string) string {
	return i18n.Translate(lang, "tour.counter", map[string]any{"current": t.Index() + 1, "total": t.Len()})
}

func (t *Tour) enter(idx int) {
	step := t.def.Steps[idx]
	for _, fn := range t.prepare {
		fn(step)
	}
	for _, fn := range t.changed {
		fn(idx)
	}
}
