package core

// Action represents a semantic game action, abstracted from physical key presses
// and pointer events. Games work with these intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionEase           // A, Left arrow, EASE TIDE button - pull the tide down
	ActionSend           // D, Right arrow, SEND WAVE button - push the tide up
	ActionRelease        // Space, pointer up/out - let go of both controls
	ActionHold           // Modifier: the Ease/Send in this frame stays active until Release
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key, RETRY - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionEase:
		return "Ease"
	case ActionSend:
		return "Send"
	case ActionRelease:
		return "Release"
	case ActionHold:
		return "Hold"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for a single simulation tick.
// It contains all actions that were triggered since the previous tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
