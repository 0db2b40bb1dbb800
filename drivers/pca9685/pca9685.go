// Package pca9685 implements a motor.Backend over the PCA9685 16-channel,
// 12-bit PWM controller on I2C, for H-bridge driver boards hung off the bus
// instead of on-chip PWM slices.
//
// The chip runs every output from one 25 MHz oscillator through a single
// 8-bit prescaler and a fixed 4096-tick frame, so all sixteen outputs form
// one "slice": they share frequency, and logical levels are rescaled from
// the channel's 0..period range onto the 4096-tick frame. Achievable output
// frequencies are roughly 24 Hz to 1526 Hz; requests outside that band are
// clamped to the nearest prescale.
//
// NOTE: I2C.Tx must not release the bus between the register byte and the
// payload (single write transaction).
package pca9685

import (
	"math"
	"sync"

	"tinygo.org/x/drivers"

	"motordrive-go/drivers/motor"
	"motordrive-go/errcode"
)

// Default I2C address with all address pins low.
const Address = 0x40

// Registers and bits (see PCA9685 datasheet).
const (
	regMode1    = 0x00
	regMode2    = 0x01
	regLEDBase  = 0x06
	regPrescale = 0xFE

	mode1Sleep   = 0x10
	mode1AutoInc = 0x20
	mode1AllCall = 0x01

	fullBit = 0x10 // LEDn_ON_H / LEDn_OFF_H bit 4: full on / full off

	oscHz      = 25_000_000
	frameTicks = 4096

	prescaleMin = 3
	prescaleMax = 255

	channels = 16
)

// Backend drives a PCA9685 as the PWM capability of motor channels.
// Unlike the on-chip backends it multiplexes one prescaler across all
// channels, so it serializes internally; individual Motors still assume
// single-threaded callers.
type Backend struct {
	mu    sync.Mutex
	bus   drivers.I2C
	addr  uint16
	bound [channels]bool

	// shadow of the single shared slice
	wrap uint16
	div  motor.ClockDiv
}

var _ motor.Backend = (*Backend)(nil)

// New creates a backend for a PCA9685 at addr (0 means the default 0x40).
// The I2C bus must already be configured. No IO happens until Configure.
func New(bus drivers.I2C, addr uint16) *Backend {
	if addr == 0 {
		addr = Address
	}
	return &Backend{bus: bus, addr: addr}
}

// SourceHz reports the internal oscillator.
func (b *Backend) SourceHz() uint32 { return oscHz }

// Slice is constant: the chip has one prescaler for all outputs.
func (b *Backend) Slice(motor.Pin) uint8 { return 0 }

func (b *Backend) Bind(pin motor.Pin) error {
	if pin < 0 || pin >= channels {
		return errcode.UnknownPin
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bound[pin] {
		return errcode.PinInUse
	}
	b.bound[pin] = true
	return nil
}

func (b *Backend) Release(pin motor.Pin) error {
	if pin < 0 || pin >= channels {
		return errcode.UnknownPin
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bound[pin] = false
	// Park the output fully off.
	return b.writeLevel(pin, 0, fullBit<<8)
}

// Configure programs the prescaler for the frequency implied by (wrap, div)
// and wakes the chip with register auto-increment enabled.
func (b *Backend) Configure(_ uint8, wrap uint16, div motor.ClockDiv) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wrap, b.div = wrap, div
	return b.program()
}

func (b *Backend) SetClockDiv(_ uint8, div motor.ClockDiv) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.div = div
	return b.program()
}

func (b *Backend) SetWrap(_ uint8, wrap uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wrap = wrap
	return b.program()
}

// program converts the shadow (wrap, div) into a prescale and writes the
// sleep / prescale / wake sequence. The prescaler can only change while the
// oscillator sleeps.
func (b *Backend) program() error {
	freq := float64(oscHz) / (float64(b.div) / 16 * float64(uint32(b.wrap)+1))
	raw := math.Floor(float64(oscHz)/frameTicks/freq+0.5) - 1
	presc := uint8(prescaleMin)
	switch {
	case raw > prescaleMax:
		presc = prescaleMax
	case raw > prescaleMin:
		presc = uint8(raw)
	}
	if err := b.write(regMode1, mode1Sleep|mode1AutoInc|mode1AllCall); err != nil {
		return err
	}
	if err := b.write(regPrescale, presc); err != nil {
		return err
	}
	return b.write(regMode1, mode1AutoInc|mode1AllCall)
}

// SetLevel rescales a logical level in 0..period onto the 4096-tick frame.
// Zero and full scale use the chip's dedicated full-off / full-on bits so
// the output is truly static, not a 1-tick sliver.
func (b *Backend) SetLevel(pin motor.Pin, level uint16) error {
	if pin < 0 || pin >= channels {
		return errcode.UnknownPin
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.bound[pin] {
		return errcode.NotBound
	}
	period := uint32(b.wrap) + 1
	ticks := uint32(level) * frameTicks / period
	switch {
	case level == 0:
		return b.writeLevel(pin, 0, fullBit<<8)
	case ticks >= frameTicks:
		return b.writeLevel(pin, fullBit<<8, 0)
	default:
		return b.writeLevel(pin, 0, uint16(ticks))
	}
}

func (b *Backend) write(reg, val uint8) error {
	return b.bus.Tx(b.addr, []byte{reg, val}, nil)
}

// writeLevel writes the four LEDn registers in one auto-increment burst.
func (b *Backend) writeLevel(pin motor.Pin, on, off uint16) error {
	base := uint8(regLEDBase + 4*int(pin))
	return b.bus.Tx(b.addr, []byte{
		base,
		uint8(on), uint8(on >> 8),
		uint8(off), uint8(off >> 8),
	}, nil)
}
