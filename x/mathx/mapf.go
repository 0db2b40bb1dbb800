package mathx

// MapFloat maps x linearly from [inMin,inMax] to [outMin,outMax].
// The input range may be inverted (inMin > inMax); x is clamped to it first.
// The caller must guarantee inMin != inMax.
func MapFloat(x, inMin, inMax, outMin, outMax float32) float32 {
	x = Clamp(x, inMin, inMax)
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}
