package motor

// ClockDiv is an 8.4 fixed-point PWM clock divider: integer part in the top
// eight bits, sixteenths in the low four. Valid dividers run 1.0 to 255+15/16.
type ClockDiv uint16

func (d ClockDiv) Int() uint8  { return uint8(d >> 4) }
func (d ClockDiv) Frac() uint8 { return uint8(d & 0xf) }

// Float returns the divider as a ratio, for display only.
func (d ClockDiv) Float() float32 { return float32(d) / 16 }

// Backend is the PWM capability a Motor drives through. Implementations map
// pins onto hardware counter units ("slices"); pins sharing a slice share one
// wrap and one divider, and the channel writes those registers exactly once
// per change.
//
// Levels run 0..period where period = wrap+1; a level above the wrap holds
// the output continuously high.
type Backend interface {
	// SourceHz is the undivided counter input clock.
	SourceHz() uint32

	// Slice identifies the counter unit behind pin.
	Slice(pin Pin) uint8

	// Bind attaches the PWM function to pin; Release detaches it.
	Bind(pin Pin) error
	Release(pin Pin) error

	// Configure sets wrap and divider together and starts the counter.
	Configure(slice uint8, wrap uint16, div ClockDiv) error

	// SetClockDiv and SetWrap update one register each, for callers that
	// must order the two writes around level updates.
	SetClockDiv(slice uint8, div ClockDiv) error
	SetWrap(slice uint8, wrap uint16) error

	// SetLevel sets the compare level for one pin.
	SetLevel(pin Pin, level uint16) error
}
