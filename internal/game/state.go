package game

import "time"

// State is the engine's top-level screen state.
type State int

const (
	StateLoading State = iota
	StateMenu
	StatePlaying
	StateCompletion
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StateCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// Event is a discrete input trigger consumed by the state machine.
type Event int

const (
	EventUp Event = iota
	EventDown
	EventConfirm
	EventBack
	EventToggleMute
)

func (e Event) String() string {
	switch e {
	case EventUp:
		return "up"
	case EventDown:
		return "down"
	case EventConfirm:
		return "confirm"
	case EventBack:
		return "back"
	case EventToggleMute:
		return "toggle_mute"
	default:
		return "unknown"
	}
}

// Outcome is how a mission session ended. Aborted is the player bailing
// out, distinct from a mission-logic failure.
type Outcome int

const (
	OutcomeUnset Outcome = iota
	OutcomeSuccess
	OutcomeFailure
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeAborted:
		return "aborted"
	case OutcomeUnset:
		return "unset"
	default:
		return "unknown"
	}
}

// CompletionRecord is the immutable summary of a finished mission session.
type CompletionRecord struct {
	MissionID uint
	Title     string
	Elapsed   time.Duration
	Outcome   Outcome
}
