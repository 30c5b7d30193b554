package tide

import (
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tides-of-time/internal/core"
)

// Simulator advances a State one fixed tick at a time.
// It is not safe for concurrent use; the platform drives it from a single
// update loop and delivers input through SetControlDirection.
type Simulator struct {
	params Params
	seed   int64
	rng    *rand.Rand
	logger *log.Logger
	state  State

	pending    Direction
	hasPending bool
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger routes recoverable warnings to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a simulator and starts a fresh round.
// The seed makes the starting oscillation and every reshuffle reproducible.
func New(params Params, seed int64, opts ...Option) *Simulator {
	s := &Simulator{
		params: params,
		seed:   seed,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Reset discards the current round and starts a fresh one. It is the only
// way out of StatusGameOver.
func (s *Simulator) Reset() {
	s.rng = rand.New(rand.NewSource(s.seed)) //nolint:gosec // gameplay randomness
	s.state = s.freshState()
	s.hasPending = false
	s.pending = DirIdle
}

// Reseed sets the seed used by the next Reset.
func (s *Simulator) Reseed(seed int64) {
	s.seed = seed
}

func (s *Simulator) freshState() State {
	p := s.params
	return State{
		Balance:      0.5,
		OscSpeed:     math.Min(p.StartSpeedMin+s.rng.Float64()*p.StartSpeedSpread, p.SpeedCap),
		OscAmplitude: math.Min(p.StartAmpMin+s.rng.Float64()*p.StartAmpSpread, p.AmpCap),
		Status:       StatusPlaying,
	}
}

// Params returns the constants table in use.
func (s *Simulator) Params() Params {
	return s.params
}

// SetControlDirection queues the player's intent. The latest queued value is
// applied at the start of the next tick; invalid values are ignored.
func (s *Simulator) SetControlDirection(d Direction) {
	if !d.Valid() {
		s.logger.Warn("ignoring invalid control direction", "direction", int(d))
		return
	}
	s.pending = d
	s.hasPending = true
}

// Tick advances the simulation by one step and returns the resulting
// snapshot. Once the round is over, Tick changes nothing until Reset.
func (s *Simulator) Tick() Snapshot {
	if s.state.Status == StatusGameOver {
		s.hasPending = false
		return s.Snapshot()
	}

	if s.hasPending {
		s.state.Direction = s.pending
		s.hasPending = false
	}

	st, resets := sanitize(s.state, s.params)
	if len(resets) > 0 {
		s.logger.Warn("invalid simulation state reset, round continues", "fields", resets, "tick", st.ElapsedTicks)
	}

	s.state = s.step(st)
	return s.Snapshot()
}

// step runs the update rules on a sanitized state.
func (s *Simulator) step(st State) State {
	p := s.params

	// A round that already sits at an extreme ends before anything moves.
	if st.Balance <= 0 || st.Balance >= 1 {
		return gameOver(st, ReasonOverwhelmed)
	}

	st.OscPhase += st.OscSpeed
	st.ElapsedTicks++

	if p.RampEnabled {
		if st.OscAmplitude < p.AmpCap {
			st.OscAmplitude = math.Min(st.OscAmplitude+p.AmpRamp, p.AmpCap)
		}
		if st.OscSpeed < p.SpeedCap {
			st.OscSpeed = math.Min(st.OscSpeed+p.SpeedRamp, p.SpeedCap)
		}
	}

	if p.ReshuffleChance > 0 && s.rng.Float64() < p.ReshuffleChance {
		speed := p.ReshuffleBase + s.rng.Float64()*p.ReshuffleSpread + p.ReshuffleGrowth*float64(st.ElapsedTicks)
		st.OscSpeed = math.Min(speed, p.SpeedCap)
	}

	osc := math.Sin(st.OscPhase) * st.OscAmplitude

	if st.Direction != DirIdle {
		st.PlayerForce += float64(st.Direction) * p.ForceGain
	} else {
		st.PlayerForce *= p.ForceDecay
		if math.Abs(st.PlayerForce) < p.ForceEpsilon {
			st.PlayerForce = 0
		}
	}
	st.PlayerForce = core.ClampF(st.PlayerForce, -p.ForceLimit, p.ForceLimit)

	st.Balance = core.ClampF(0.5+osc+st.PlayerForce, 0, 1)

	inBalance := p.inBalance(st.Balance)

	if p.inDanger(st.Balance) {
		st.EdgeTicks++
		if st.EdgeTicks > p.EdgeTicksLimit {
			return gameOver(st, ReasonEdgeTimeout)
		}
	} else {
		st.EdgeTicks = 0
	}

	if st.Balance <= 0 || st.Balance >= 1 {
		return gameOver(st, ReasonOverwhelmed)
	}

	if !inBalance {
		st.ImbalanceTicks++
		if st.ImbalanceTicks > p.ImbalanceTicksLimit {
			return gameOver(st, ReasonBalanceLost)
		}
	} else {
		st.ImbalanceTicks = 0
		if st.Direction != DirIdle {
			st.Score += p.ScorePerTick()
		}
	}

	return st
}

func gameOver(st State, r Reason) State {
	st.Status = StatusGameOver
	st.Reason = r
	return st
}

func (p Params) inBalance(b float64) bool {
	return b >= p.BalanceLow && b <= p.BalanceHigh
}

func (p Params) inDanger(b float64) bool {
	return b < p.DangerLow || b > p.DangerHigh
}

// State returns a copy of the full simulation state.
func (s *Simulator) State() State {
	return s.state
}

// Snapshot returns the read-only view of the current state.
func (s *Simulator) Snapshot() Snapshot {
	st := s.state
	return Snapshot{
		Balance:        st.Balance,
		HarmonyPercent: HarmonyPercent(st.Balance),
		Score:          st.Score,
		RoundedScore:   RoundScore(st.Score),
		Status:         st.Status,
		Reason:         st.Reason,
		InBalance:      s.params.inBalance(st.Balance),
		InDanger:       s.params.inDanger(st.Balance),
		Direction:      st.Direction,
		PlayerForce:    st.PlayerForce,
		EdgeTicks:      st.EdgeTicks,
		ImbalanceTicks: st.ImbalanceTicks,
		Elapsed:        st.ElapsedTicks,
	}
}

// sanitize returns a copy of st with every non-finite or out-of-domain field
// reset to its nominal default, plus the names of the fields it touched.
func sanitize(st State, p Params) (State, []string) {
	var resets []string
	fix := func(name string, v *float64, def float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = def
			resets = append(resets, name)
		}
	}

	fix("balance", &st.Balance, 0.5)
	fix("player_force", &st.PlayerForce, 0)
	fix("score", &st.Score, 0)
	fix("osc_phase", &st.OscPhase, 0)
	fix("osc_speed", &st.OscSpeed, p.StartSpeedMin)
	fix("osc_amplitude", &st.OscAmplitude, p.StartAmpMin)

	if !st.Direction.Valid() {
		st.Direction = DirIdle
		resets = append(resets, "direction")
	}
	if st.EdgeTicks < 0 {
		st.EdgeTicks = 0
		resets = append(resets, "edge_ticks")
	}
	if st.ImbalanceTicks < 0 {
		st.ImbalanceTicks = 0
		resets = append(resets, "imbalance_ticks")
	}
	return st, resets
}
