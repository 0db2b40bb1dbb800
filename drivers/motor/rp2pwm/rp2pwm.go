//go:build rp2040

// Package rp2pwm provides a motor.Backend over the RP2040 PWM block.
//
// The block has eight two-channel slices; GPIO N maps to slice (N>>1)&7,
// channel A on even pins and B on odd. The divider register is natively 8.4
// fixed point, so a motor.ClockDiv writes through unchanged. Register-level
// access (rather than the machine package's Configure path) is needed so the
// divider and wrap writes can be ordered around level updates during a live
// frequency change.
package rp2pwm

import (
	"machine"
	"runtime/volatile"
	"unsafe"

	"motordrive-go/drivers/motor"
	"motordrive-go/errcode"
)

const (
	pwmBase     = 0x40050000
	sliceStride = 0x14

	csrEnable = 1 << 0

	numPins = 30
)

// One PWM slice register window: CSR, DIV, CTR, CC, TOP.
type sliceRegs struct {
	csr volatile.Register32
	div volatile.Register32
	ctr volatile.Register32
	cc  volatile.Register32
	top volatile.Register32
}

func regs(slice uint8) *sliceRegs {
	return (*sliceRegs)(unsafe.Pointer(uintptr(pwmBase) + uintptr(slice)*sliceStride))
}

// Backend drives motor channels from the on-chip PWM slices.
type Backend struct {
	bound [numPins]bool
}

var _ motor.Backend = (*Backend)(nil)

func New() *Backend { return &Backend{} }

func (b *Backend) SourceHz() uint32 { return machine.CPUFrequency() }

func (b *Backend) Slice(pin motor.Pin) uint8 { return uint8(pin>>1) & 0x7 }

// Bind claims the PWM function on a GPIO.
func (b *Backend) Bind(pin motor.Pin) error {
	if pin < 0 || pin >= numPins {
		return errcode.UnknownPin
	}
	if b.bound[pin] {
		return errcode.PinInUse
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinPWM})
	b.bound[pin] = true
	return nil
}

// Release returns the GPIO to a plain input.
func (b *Backend) Release(pin motor.Pin) error {
	if pin < 0 || pin >= numPins {
		return errcode.UnknownPin
	}
	if b.bound[pin] {
		machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInput})
		b.bound[pin] = false
	}
	return nil
}

// Configure stops the slice, loads divider and wrap from a zeroed counter
// and restarts it.
func (b *Backend) Configure(slice uint8, wrap uint16, div motor.ClockDiv) error {
	r := regs(slice)
	r.csr.ClearBits(csrEnable)
	r.div.Set(uint32(div))
	r.ctr.Set(0)
	r.top.Set(uint32(wrap))
	r.csr.SetBits(csrEnable)
	return nil
}

func (b *Backend) SetClockDiv(slice uint8, div motor.ClockDiv) error {
	regs(slice).div.Set(uint32(div))
	return nil
}

func (b *Backend) SetWrap(slice uint8, wrap uint16) error {
	regs(slice).top.Set(uint32(wrap))
	return nil
}

// SetLevel updates one half of the slice's CC register. Channel B sits in
// the high halfword.
func (b *Backend) SetLevel(pin motor.Pin, level uint16) error {
	if pin < 0 || pin >= numPins {
		return errcode.UnknownPin
	}
	r := regs(b.Slice(pin))
	cc := r.cc.Get()
	if pin&1 == 1 {
		cc = (cc &^ 0xffff0000) | uint32(level)<<16
	} else {
		cc = (cc &^ 0x0000ffff) | uint32(level)
	}
	r.cc.Set(cc)
	return nil
}
