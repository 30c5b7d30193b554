package tide

import "math"

// Direction is the player's current control intent.
type Direction int

const (
	DirEase Direction = -1 // lower the tide
	DirIdle Direction = 0
	DirSend Direction = 1 // raise the tide
)

// Valid reports whether d is one of the three control directions.
func (d Direction) Valid() bool {
	return d >= DirEase && d <= DirSend
}

func (d Direction) String() string {
	switch d {
	case DirEase:
		return "ease"
	case DirIdle:
		return "idle"
	case DirSend:
		return "send"
	default:
		return "invalid"
	}
}

// Status is the terminal flag of a round.
type Status int

const (
	StatusPlaying Status = iota
	StatusGameOver
)

func (s Status) String() string {
	if s == StatusGameOver {
		return "game over"
	}
	return "playing"
}

// Reason names the rule that ended a round.
type Reason int

const (
	ReasonNone        Reason = iota
	ReasonOverwhelmed        // balance reached 0 or 1
	ReasonEdgeTimeout        // too long inside the danger margin
	ReasonBalanceLost        // too long outside the balanced band
)

func (r Reason) String() string {
	switch r {
	case ReasonOverwhelmed:
		return "overwhelmed"
	case ReasonEdgeTimeout:
		return "edge timeout"
	case ReasonBalanceLost:
		return "balance lost"
	default:
		return "none"
	}
}

// Message is the line shown to the player on the game over banner.
func (r Reason) Message() string {
	switch r {
	case ReasonOverwhelmed:
		return "You've been overwhelmed by the tides"
	case ReasonEdgeTimeout:
		return "The tides lingered at the edge too long"
	case ReasonBalanceLost:
		return "The flow was broken. Balance is a practice."
	default:
		return ""
	}
}

// State is the complete simulation state. The simulator is its only writer.
type State struct {
	Balance        float64
	OscPhase       float64
	OscSpeed       float64
	OscAmplitude   float64
	Direction      Direction
	PlayerForce    float64
	ImbalanceTicks int
	EdgeTicks      int
	ElapsedTicks   int
	Score          float64
	Status         Status
	Reason         Reason
}

// Snapshot is the read-only view published after every tick.
type Snapshot struct {
	Balance        float64
	HarmonyPercent int
	Score          float64
	RoundedScore   int
	Status         Status
	Reason         Reason
	InBalance      bool
	InDanger       bool
	Direction      Direction
	PlayerForce    float64
	EdgeTicks      int
	ImbalanceTicks int
	Elapsed        int
}

// GameOver reports whether the round has ended.
func (s Snapshot) GameOver() bool {
	return s.Status == StatusGameOver
}

// HarmonyPercent maps a balance value to 100 at the center and 0 at either
// extreme.
func HarmonyPercent(balance float64) int {
	return int(math.Round((1 - math.Abs(balance-0.5)*2) * 100))
}

// RoundScore converts an accumulated score to whole points.
func RoundScore(score float64) int {
	return int(math.Round(score))
}
