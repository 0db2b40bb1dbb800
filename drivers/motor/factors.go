package motor

// Frequencies a channel accepts, and the divider limits of an 8.4
// fixed-point counter divider.
const (
	MinFrequency float32 = 10.0
	MaxFrequency float32 = 400000.0

	div16Min = 16          // 1.0 in sixteenths
	div16Max = 255*16 + 15 // 255.9375 in sixteenths
	wrapMax  = 65535
)

// pwmFactors finds the (period, divider) pair realizing freq against the
// backend source clock. The product div16*period is pinned at
// 16*source/freq; the search then moves small prime factors (5, 3, 2) out of
// the divider and into the period, trading divider headroom for wrap
// resolution. Not every frequency divides cleanly, so the result is the
// nearest realizable pairing; ok is false when the leftover divider falls
// outside the hardware's 8.4 range.
func pwmFactors(sourceHz uint32, freq float32) (period uint16, div ClockDiv, ok bool) {
	if freq < 1 || freq > float32(sourceHz/2) {
		return 0, 0, false
	}
	div16Top := 16 * sourceHz / uint32(freq)
	top := uint32(1)
loop:
	for {
		switch {
		case div16Top >= 16*5 && div16Top%5 == 0 && top*5 <= wrapMax:
			div16Top /= 5
			top *= 5
		case div16Top >= 16*3 && div16Top%3 == 0 && top*3 <= wrapMax:
			div16Top /= 3
			top *= 3
		case div16Top >= 16*2 && top*2 <= wrapMax:
			div16Top /= 2
			top *= 2
		default:
			break loop
		}
	}
	if div16Top < div16Min || div16Top > div16Max {
		return 0, 0, false
	}
	return uint16(top), ClockDiv(div16Top), true
}
