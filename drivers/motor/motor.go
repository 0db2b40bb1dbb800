// Package motor drives one dual-pin (H-bridge) DC motor channel over two
// complementary PWM outputs. A signed duty or speed command becomes two
// per-pin compare levels according to the active decay mode, and runtime
// frequency changes are sequenced so the output never blips while the motor
// is running.
//
// The package holds no global state and touches no registers itself; all
// hardware access goes through the injected Backend capability, so the whole
// channel is unit-testable against a recording fake. One Motor assumes
// single-threaded access; callers sharing a channel across goroutines must
// serialize externally.
package motor

import (
	"motordrive-go/errcode"
	"motordrive-go/x/mathx"
)

// Channel defaults, matching common H-bridge driver boards: 25 kHz sits
// above the audible range, and a 5% deadzone covers typical brushed-motor
// static friction.
const (
	DefaultFrequency  float32 = 25000
	DefaultSpeedScale float32 = 1.0
	DefaultDeadzone   float32 = 0.05
)

// Config carries construction parameters for one channel.
type Config struct {
	Direction  Direction
	SpeedScale float32 // user speed units per full duty; 0 means DefaultSpeedScale
	Deadzone   float32 // in [0, 1); zero disables the deadzone
	Frequency  float32 // Hz; 0 means DefaultFrequency
	Decay      DecayMode
}

// DefaultConfig returns a Config with all defaults filled in, including the
// stock deadzone (a zero-valued Config keeps deadzone off).
func DefaultConfig() Config {
	return Config{
		SpeedScale: DefaultSpeedScale,
		Deadzone:   DefaultDeadzone,
		Frequency:  DefaultFrequency,
	}
}

// Motor is one H-bridge channel: a pin pair, its command state and the
// current (period, divider) realization of the PWM frequency.
type Motor struct {
	backend Backend
	pins    PinPair
	state   *State
	decay   DecayMode

	freq   float32
	period uint16
	div    ClockDiv
	bound  bool
}

// New validates cfg and builds a channel. No hardware is touched until Init.
func New(backend Backend, pins PinPair, cfg Config) (*Motor, error) {
	if backend == nil {
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "motor.New", Msg: "nil backend"}
	}
	if pins.Positive == pins.Negative {
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "motor.New", Msg: "pin pair must use two distinct pins"}
	}
	if cfg.SpeedScale == 0 {
		cfg.SpeedScale = DefaultSpeedScale
	}
	if cfg.Frequency == 0 {
		cfg.Frequency = DefaultFrequency
	}
	st, err := NewState(cfg.Direction, cfg.SpeedScale, cfg.Deadzone)
	if err != nil {
		return nil, err
	}
	if !mathx.Between(cfg.Frequency, MinFrequency, MaxFrequency) {
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "motor.New", Msg: "frequency out of range"}
	}
	return &Motor{
		backend: backend,
		pins:    pins,
		state:   st,
		decay:   cfg.Decay,
		freq:    cfg.Frequency,
	}, nil
}

// Init resolves the configured frequency to a (period, divider) pair, claims
// the PWM function on both pins and starts the slice(s) at zero output.
func (m *Motor) Init() error {
	period, div, ok := pwmFactors(m.backend.SourceHz(), m.freq)
	if !ok {
		return &errcode.E{C: errcode.UnrealizableFrequency, Op: "motor.Init"}
	}
	if err := m.backend.Bind(m.pins.Positive); err != nil {
		return err
	}
	if err := m.backend.Bind(m.pins.Negative); err != nil {
		m.backend.Release(m.pins.Positive)
		return err
	}
	m.bound = true
	m.period, m.div = period, div

	posSlice := m.backend.Slice(m.pins.Positive)
	negSlice := m.backend.Slice(m.pins.Negative)
	if err := m.backend.Configure(posSlice, period-1, div); err != nil {
		return err
	}
	if negSlice != posSlice {
		if err := m.backend.Configure(negSlice, period-1, div); err != nil {
			return err
		}
	}
	if err := m.backend.SetLevel(m.pins.Positive, 0); err != nil {
		return err
	}
	return m.backend.SetLevel(m.pins.Negative, 0)
}

// Close releases the PWM binding on both pins. The pin identities stay with
// the caller.
func (m *Motor) Close() error {
	if !m.bound {
		return nil
	}
	m.bound = false
	err := m.backend.Release(m.pins.Positive)
	if err2 := m.backend.Release(m.pins.Negative); err == nil {
		err = err2
	}
	return err
}

// Accessors.

func (m *Motor) Pins() PinPair        { return m.pins }
func (m *Motor) Enabled() bool        { return m.state.Enabled() }
func (m *Motor) Duty() float32        { return m.state.Duty() }
func (m *Motor) Speed() float32       { return m.state.Speed() }
func (m *Motor) Direction() Direction { return m.state.Direction() }
func (m *Motor) SpeedScale() float32  { return m.state.SpeedScale() }
func (m *Motor) Deadzone() float32    { return m.state.Deadzone() }
func (m *Motor) Frequency() float32   { return m.freq }
func (m *Motor) Period() uint16       { return m.period }
func (m *Motor) Divider() ClockDiv    { return m.div }
func (m *Motor) DecayMode() DecayMode { return m.decay }

// Commands. Each computes the new state first, then pushes the resulting
// levels in one place, so a rejected command never half-applies.

// Enable resumes output at the stored setpoint.
func (m *Motor) Enable() error { return m.applyDuty(m.state.Enable()) }

// Disable forces both pins to zero output; the setpoint is kept.
func (m *Motor) Disable() error { return m.applyDuty(m.state.Disable()) }

// SetDuty commands a normalized duty in [-1, 1].
func (m *Motor) SetDuty(duty float32) error { return m.applyDuty(m.state.SetDuty(duty)) }

// SetSpeed commands a speed in user units (duty * speed scale).
func (m *Motor) SetSpeed(speed float32) error { return m.applyDuty(m.state.SetSpeed(speed)) }

// Stop actively commands zero while staying enabled. Under SlowDecay this
// brakes the motor rather than letting it spin down.
func (m *Motor) Stop() error { return m.applyDuty(m.state.Stop()) }

// Coast clears the setpoint and disables the channel, letting the motor
// free-wheel to a halt.
func (m *Motor) Coast() error {
	m.state.SetDuty(0)
	return m.Disable()
}

func (m *Motor) FullPositive() error { return m.applyDuty(m.state.FullPositive()) }
func (m *Motor) FullNegative() error { return m.applyDuty(m.state.FullNegative()) }

// ToPercent maps in from [inMin, inMax] onto the full speed range and
// applies it. The input range may be inverted; a degenerate range is
// rejected without touching the channel.
func (m *Motor) ToPercent(in, inMin, inMax float32) error {
	duty, err := m.state.ToPercent(in, inMin, inMax)
	if err != nil {
		return err
	}
	return m.applyDuty(duty)
}

// ToPercentRange maps in from [inMin, inMax] onto [speedMin, speedMax].
func (m *Motor) ToPercentRange(in, inMin, inMax, speedMin, speedMax float32) error {
	duty, err := m.state.ToPercentRange(in, inMin, inMax, speedMin, speedMax)
	if err != nil {
		return err
	}
	return m.applyDuty(duty)
}

// SetDirection flips the output sign and re-applies the current setpoint.
func (m *Motor) SetDirection(dir Direction) error {
	return m.applyDuty(m.state.SetDirection(dir))
}

// SetSpeedScale re-derives the duty so the commanded speed is preserved
// under the new scale.
func (m *Motor) SetSpeedScale(scale float32) error {
	duty, err := m.state.SetSpeedScale(scale)
	if err != nil {
		return err
	}
	return m.applyDuty(duty)
}

// SetDeadzone re-applies the setpoint under the new deadzone.
func (m *Motor) SetDeadzone(z float32) error {
	duty, err := m.state.SetDeadzone(z)
	if err != nil {
		return err
	}
	return m.applyDuty(duty)
}

// SetDecayMode switches decay strategy and immediately re-applies the
// current duty under the new mode's level formula.
func (m *Motor) SetDecayMode(mode DecayMode) error {
	m.decay = mode
	return m.applyDuty(m.state.applied())
}

// SetFrequency changes the realized PWM frequency live. Levels are read by
// the hardware against the wrap register, so the re-apply is ordered around
// the wrap write: when the period grows, the new (larger) levels are written
// while the old wrap is still live, where they saturate harmlessly; when the
// period shrinks, levels are written only after the wrap has shrunk to meet
// them. Either way the instantaneous duty never dips or spikes mid-change.
// A frequency outside the channel bounds, or one with no realizable
// (period, divider) pairing, is rejected with no state change.
func (m *Motor) SetFrequency(freq float32) error {
	if !mathx.Between(freq, MinFrequency, MaxFrequency) {
		return &errcode.E{C: errcode.UnrealizableFrequency, Op: "motor.SetFrequency", Msg: "frequency out of bounds"}
	}
	period, div, ok := pwmFactors(m.backend.SourceHz(), freq)
	if !ok {
		return &errcode.E{C: errcode.UnrealizableFrequency, Op: "motor.SetFrequency"}
	}

	preUpdate := period > m.period
	m.period, m.div, m.freq = period, div, freq

	posSlice := m.backend.Slice(m.pins.Positive)
	negSlice := m.backend.Slice(m.pins.Negative)

	if err := m.backend.SetClockDiv(posSlice, div); err != nil {
		return err
	}
	if negSlice != posSlice {
		if err := m.backend.SetClockDiv(negSlice, div); err != nil {
			return err
		}
	}

	if m.state.Enabled() && preUpdate {
		if err := m.applyDuty(m.state.applied()); err != nil {
			return err
		}
	}

	if err := m.backend.SetWrap(posSlice, period-1); err != nil {
		return err
	}
	if negSlice != posSlice {
		if err := m.backend.SetWrap(negSlice, period-1); err != nil {
			return err
		}
	}

	if m.state.Enabled() && !preUpdate {
		if err := m.applyDuty(m.state.applied()); err != nil {
			return err
		}
	}
	return nil
}

// applyDuty converts a duty into two pin levels under the active decay mode
// and pushes both to the backend.
func (m *Motor) applyDuty(duty float32) error {
	level := DutyToLevel(duty, m.period)
	pos, neg := m.decay.PinLevels(level, m.period)
	if err := m.backend.SetLevel(m.pins.Positive, pos); err != nil {
		return err
	}
	return m.backend.SetLevel(m.pins.Negative, neg)
}
