package ramp

import "time"

// Step applies the new duty.
type Step func(duty float32)

// Tick waits for d and reports whether to continue (false => cancelled).
type Tick func(d time.Duration) bool

// StartLinear runs a synchronous (caller-driven) duty ramp from cur to
// target in evenly spaced steps. Provide Tick to handle timing and
// cancellation. steps<=0 or duration<=0 snaps straight to target.
func StartLinear(cur, target float32, duration time.Duration, steps int, tick Tick, set Step) {
	if steps <= 0 || duration <= 0 {
		set(target)
		return
	}
	stepDur := duration / time.Duration(steps)
	if stepDur <= 0 {
		stepDur = time.Millisecond
	}
	for i := 1; i < steps; i++ {
		if !tick(stepDur) {
			return
		}
		set(cur + (target-cur)*float32(i)/float32(steps))
	}
	if !tick(stepDur) {
		return
	}
	set(target)
}
