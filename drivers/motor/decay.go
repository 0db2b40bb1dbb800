package motor

import "math"

// DecayMode selects how motor current recirculates during the off portion of
// each PWM cycle.
type DecayMode uint8

const (
	// SlowDecay ("braking") drives both pins with complementary high duty,
	// shorting the winding between pulses.
	SlowDecay DecayMode = iota
	// FastDecay ("coasting") leaves one pin fully off so the winding
	// free-wheels between pulses.
	FastDecay
)

func (m DecayMode) String() string {
	if m == FastDecay {
		return "fast"
	}
	return "slow"
}

// DutyToLevel converts a normalized duty in [-1, 1] to a signed compare
// level against the period. The sign carries drive direction; the magnitude
// never exceeds the period.
func DutyToLevel(duty float32, period uint16) int32 {
	return int32(math.Round(float64(duty) * float64(period)))
}

// PinLevels turns a signed level into the absolute compare levels for the
// positive and negative pins under this decay mode.
func (m DecayMode) PinLevels(signedLevel int32, period uint16) (pos, neg uint16) {
	p := int32(period)
	if m == SlowDecay {
		if signedLevel >= 0 {
			return period, uint16(p - signedLevel)
		}
		return uint16(p + signedLevel), period
	}
	if signedLevel >= 0 {
		return uint16(signedLevel), 0
	}
	return 0, uint16(-signedLevel)
}
