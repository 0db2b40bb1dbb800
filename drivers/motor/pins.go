package motor

// Pin identifies one backend output by number. The channel references pins
// but does not own them; allocating and freeing the identities is the
// caller's concern.
type Pin int

// PinPair is the positive/negative output pair of one H-bridge channel.
// Both halves are driven at the same PWM period and divider so they stay
// phase- and frequency-locked.
type PinPair struct {
	Positive Pin
	Negative Pin
}
