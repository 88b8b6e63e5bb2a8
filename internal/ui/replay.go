package ui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/duelsim/internal/game"
	"github.com/samdwyer/duelsim/internal/telemetry"
)

// Replay steps through a finished fight one turn at a time.
type Replay struct {
	screen   *Screen
	renderer *Renderer
	frames   []Frame
	step     int
	running  bool
}

// NewReplay creates a viewer for outcome on screen. It starts before the
// first turn.
func NewReplay(screen *Screen, outcome *game.Outcome) *Replay {
	return &Replay{
		screen:   screen,
		renderer: NewRenderer(screen),
		frames:   FramesFromOutcome(outcome),
	}
}

// Step returns the index of the frame on screen.
func (v *Replay) Step() int { return v.step }

// Frames returns the number of frames, the first being the pre-fight state.
func (v *Replay) Frames() int { return len(v.frames) }

// Run executes the viewer loop until the user quits or ctx is done.
// The caller closes the screen.
func (v *Replay) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("replay")
	_, span := tracer.Start(ctx, "replay.run")
	defer span.End()

	v.running = true
	for v.running {
		if err := ctx.Err(); err != nil {
			return err
		}

		v.renderer.Render(v.frames[v.step])

		// Handle input (blocking)
		v.handleEvent(v.screen.PollEvent())
	}

	span.SetAttributes(
		attribute.Int("frames", len(v.frames)),
		attribute.Int("last_step", v.step),
	)
	return nil
}

// handleEvent processes a single input event.
func (v *Replay) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case nil:
		// Screen finalized.
		v.running = false
	case *tcell.EventKey:
		v.handleKeyEvent(ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (v *Replay) handleKeyEvent(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.running = false

	case tcell.KeyRight, tcell.KeyDown, tcell.KeyEnter:
		v.move(1)
	case tcell.KeyLeft, tcell.KeyUp:
		v.move(-1)
	case tcell.KeyHome:
		v.step = 0
	case tcell.KeyEnd:
		v.step = len(v.frames) - 1

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			v.running = false
		case ' ', 'n', 'l':
			v.move(1)
		case 'p', 'h':
			v.move(-1)
		case 'g':
			v.step = 0
		case 'G':
			v.step = len(v.frames) - 1
		}
	}
}

// move shifts the frame index by delta, staying in range.
func (v *Replay) move(delta int) {
	v.step += delta
	if v.step < 0 {
		v.step = 0
	}
	if last := len(v.frames) - 1; v.step > last {
		v.step = last
	}
}
