package tides

import "github.com/vovakirdan/tides-of-time/internal/tide"

// Snapshot captures the simulator view plus the adapter's own state.
type Snapshot struct {
	tide.Snapshot
	Paused    bool
	Held      tide.Direction // direction the controls currently command
	HoldLeft  int            // ticks before a keyboard hold expires
	Latched   bool           // held by pointer until release
	HighScore int
	Swell     int // amplitude and speed progress toward their caps, percent
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	swell := 0
	if g.difficulty != nil && g.sim != nil {
		swell = g.difficulty.Percent(g.sim.State())
	}
	return Snapshot{
		Snapshot:  g.snap,
		Paused:    g.paused,
		Held:      g.held,
		HoldLeft:  g.holdLeft,
		Latched:   g.latched,
		HighScore: g.HighScore(),
		Swell:     swell,
	}
}
