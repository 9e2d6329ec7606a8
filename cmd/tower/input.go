package main

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// Terminals deliver key repeats, not key releases, so a press holds the axis for a short window
const axisHoldWindow = 150 * time.Millisecond

// Action is a non-movement command from the keyboard
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionPause
	ActionReset
	ActionMetrics
)

// InputHandler turns key events into a platform axis and actions
type InputHandler struct {
	axis    float32
	heldFor time.Duration
}

// HandleKey consumes a key event and returns any action it maps to
func (h *InputHandler) HandleKey(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyLeft:
		h.press(-1)
		return ActionNone
	case tcell.KeyRight:
		h.press(1)
		return ActionNone
	case tcell.KeyRune:
	default:
		return ActionNone
	}

	switch ev.Rune() {
	case 'q', 'Q':
		return ActionQuit
	case 'p', 'P', ' ':
		return ActionPause
	case 'r', 'R':
		return ActionReset
	case 'm', 'M':
		return ActionMetrics
	case 'a', 'A', 'h':
		h.press(-1)
	case 'd', 'D', 'l':
		h.press(1)
	}
	return ActionNone
}

func (h *InputHandler) press(dir float32) {
	h.axis = dir
	h.heldFor = axisHoldWindow
}

// Axis returns the held axis for the next tick of length dt and decays the hold
func (h *InputHandler) Axis(dt time.Duration) float32 {
	if h.heldFor <= 0 {
		h.axis = 0
		return 0
	}
	h.heldFor -= dt
	return h.axis
}

// Clear drops any held direction
func (h *InputHandler) Clear() {
	h.axis = 0
	h.heldFor = 0
}
