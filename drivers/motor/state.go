package motor

import (
	"math"

	"motordrive-go/errcode"
	"motordrive-go/x/mathx"
)

// Direction selects which way a positive command turns the motor.
type Direction uint8

const (
	Normal Direction = iota
	Reversed
)

func (d Direction) String() string {
	if d == Reversed {
		return "reversed"
	}
	return "normal"
}

// State holds the normalized command state of one channel: raw duty setpoint
// in [-1, 1], direction, speed scale and deadzone. It performs no hardware
// access; every mutator returns the duty the caller should apply, already
// deadzone-remapped, direction-signed and gated on the enabled flag.
//
// The stored setpoint keeps the user's sign; direction is folded in only when
// deriving the applied duty, so flipping direction never rewrites the
// setpoint.
type State struct {
	duty      float32
	direction Direction
	scale     float32
	deadzone  float32
	enabled   bool
}

// NewState validates and builds a channel state. Speed scale must be finite
// and positive; deadzone must be in [0, 1).
func NewState(dir Direction, speedScale, deadzone float32) (*State, error) {
	if err := checkScale(speedScale); err != nil {
		return nil, err
	}
	if err := checkDeadzone(deadzone); err != nil {
		return nil, err
	}
	return &State{direction: dir, scale: speedScale, deadzone: deadzone}, nil
}

func checkScale(scale float32) error {
	f := float64(scale)
	if math.IsNaN(f) || math.IsInf(f, 0) || scale <= 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "state", Msg: "speed scale must be finite and > 0"}
	}
	return nil
}

func checkDeadzone(z float32) error {
	f := float64(z)
	if math.IsNaN(f) || z < 0 || z >= 1 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "state", Msg: "deadzone must be in [0, 1)"}
	}
	return nil
}

// deadzoneRemap pulls |d| < z to zero and rescales [z, 1] onto [0, 1] so the
// channel still reaches full drive. Small duties below the motor's static
// friction threshold would otherwise hum without turning the shaft.
func deadzoneRemap(d, z float32) float32 {
	if z <= 0 {
		return d
	}
	a := mathx.Abs(d)
	if a < z {
		return 0
	}
	r := (a - z) / (1 - z)
	if d < 0 {
		return -r
	}
	return r
}

// applied derives the duty to push to hardware: zero while disabled,
// otherwise the deadzone-remapped setpoint with the direction sign folded in.
func (s *State) applied() float32 {
	if !s.enabled {
		return 0
	}
	d := deadzoneRemap(s.duty, s.deadzone)
	if s.direction == Reversed {
		return -d
	}
	return d
}

// Accessors.

func (s *State) Enabled() bool        { return s.enabled }
func (s *State) Duty() float32        { return s.duty }
func (s *State) Speed() float32       { return s.duty * s.scale }
func (s *State) Direction() Direction { return s.direction }
func (s *State) SpeedScale() float32  { return s.scale }
func (s *State) Deadzone() float32    { return s.deadzone }

// Mutators. Each returns the applied duty for immediate hardware use.

// Enable resumes output at the stored setpoint.
func (s *State) Enable() float32 {
	s.enabled = true
	return s.applied()
}

// Disable forces zero output but keeps the setpoint for re-enable.
func (s *State) Disable() float32 {
	s.enabled = false
	return 0
}

// Stop clears the setpoint. The channel stays enabled, unlike Disable.
func (s *State) Stop() float32 {
	s.duty = 0
	return s.applied()
}

// SetDuty clamps and stores a normalized duty setpoint.
func (s *State) SetDuty(duty float32) float32 {
	s.duty = mathx.Clamp(duty, -1, 1)
	return s.applied()
}

// SetSpeed stores a setpoint given in user speed units.
func (s *State) SetSpeed(speed float32) float32 {
	return s.SetDuty(speed / s.scale)
}

func (s *State) FullPositive() float32 { return s.SetDuty(1) }
func (s *State) FullNegative() float32 { return s.SetDuty(-1) }

// ToPercent maps an arbitrary input range onto the full speed range.
// A degenerate input range is rejected and the state is left unchanged.
func (s *State) ToPercent(in, inMin, inMax float32) (float32, error) {
	return s.ToPercentRange(in, inMin, inMax, -s.scale, s.scale)
}

// ToPercentRange maps an arbitrary input range onto a speed range. The input
// range may be inverted (inMin > inMax).
func (s *State) ToPercentRange(in, inMin, inMax, speedMin, speedMax float32) (float32, error) {
	if inMin == inMax {
		return s.applied(), &errcode.E{C: errcode.InvalidRange, Op: "to_percent", Msg: "degenerate input range"}
	}
	return s.SetSpeed(mathx.MapFloat(in, inMin, inMax, speedMin, speedMax)), nil
}

// SetDirection flips the sign of the applied duty without touching the
// stored setpoint.
func (s *State) SetDirection(dir Direction) float32 {
	s.direction = dir
	return s.applied()
}

// SetSpeedScale keeps the commanded speed and re-derives the duty setpoint
// against the new scale.
func (s *State) SetSpeedScale(scale float32) (float32, error) {
	if err := checkScale(scale); err != nil {
		return s.applied(), err
	}
	speed := s.duty * s.scale
	s.scale = scale
	return s.SetDuty(speed / scale), nil
}

// SetDeadzone changes the deadzone and returns the re-remapped duty.
func (s *State) SetDeadzone(z float32) (float32, error) {
	if err := checkDeadzone(z); err != nil {
		return s.applied(), err
	}
	s.deadzone = z
	return s.applied(), nil
}
