package pca9685

import (
	"bytes"
	"testing"

	"motordrive-go/drivers/motor"
	"motordrive-go/errcode"
)

type fakeI2C struct {
	addrs  []uint16
	writes [][]byte
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	f.addrs = append(f.addrs, addr)
	f.writes = append(f.writes, append([]byte(nil), w...))
	return nil
}

func TestConfigureProgramsPrescale(t *testing.T) {
	bus := &fakeI2C{}
	b := New(bus, 0)
	// (wrap 62499, div 2.0) realizes 200 Hz from the 25 MHz oscillator;
	// datasheet prescale for 200 Hz is 30.
	if err := b.Configure(0, 62499, motor.ClockDiv(32)); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	want := [][]byte{
		{regMode1, mode1Sleep | mode1AutoInc | mode1AllCall},
		{regPrescale, 30},
		{regMode1, mode1AutoInc | mode1AllCall},
	}
	if len(bus.writes) != len(want) {
		t.Fatalf("got %d writes, want %d: %v", len(bus.writes), len(want), bus.writes)
	}
	for i, w := range want {
		if !bytes.Equal(bus.writes[i], w) {
			t.Fatalf("write %d = %#v, want %#v", i, bus.writes[i], w)
		}
	}
	for _, a := range bus.addrs {
		if a != Address {
			t.Fatalf("wrote to address %#x, want default %#x", a, Address)
		}
	}
}

func TestSetLevelScalesOntoFrame(t *testing.T) {
	bus := &fakeI2C{}
	b := New(bus, 0x41)
	if err := b.Configure(0, 62499, motor.ClockDiv(32)); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := b.Bind(3); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	bus.writes = nil

	// Half of the 62500-tick period is 2048 of the 4096-tick frame.
	if err := b.SetLevel(3, 31250); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	base := uint8(regLEDBase + 4*3)
	if got, want := bus.writes[0], []byte{base, 0, 0, 0x00, 0x08}; !bytes.Equal(got, want) {
		t.Fatalf("half level write = %#v, want %#v", got, want)
	}

	// Full scale uses the dedicated full-on bit.
	if err := b.SetLevel(3, 62500); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if got, want := bus.writes[1], []byte{base, 0, fullBit, 0, 0}; !bytes.Equal(got, want) {
		t.Fatalf("full-on write = %#v, want %#v", got, want)
	}

	// Zero uses the full-off bit.
	if err := b.SetLevel(3, 0); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if got, want := bus.writes[2], []byte{base, 0, 0, 0, fullBit}; !bytes.Equal(got, want) {
		t.Fatalf("full-off write = %#v, want %#v", got, want)
	}
}

func TestBindClaims(t *testing.T) {
	b := New(&fakeI2C{}, 0)
	if err := b.Bind(16); errcode.Of(err) != errcode.UnknownPin {
		t.Fatalf("Bind(16) = %v, want unknown_pin", err)
	}
	if err := b.Bind(5); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := b.Bind(5); errcode.Of(err) != errcode.PinInUse {
		t.Fatalf("double Bind = %v, want pin_in_use", err)
	}
	if err := b.SetLevel(6, 100); errcode.Of(err) != errcode.NotBound {
		t.Fatalf("unbound SetLevel = %v, want not_bound", err)
	}
	if err := b.Release(5); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := b.Bind(5); err != nil {
		t.Fatalf("rebind after release: %v", err)
	}
}

// A full channel on the chip: the factor search against the 25 MHz
// oscillator must land on the shared slice once, and duty flows through to
// frame ticks.
func TestMotorChannelOnChip(t *testing.T) {
	bus := &fakeI2C{}
	b := New(bus, 0)
	m, err := motor.New(b, motor.PinPair{Positive: 0, Negative: 1}, motor.Config{
		Frequency: 200,
		Decay:     motor.FastDecay,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if m.Period() != 62500 || m.Divider() != 32 {
		t.Fatalf("factors = (%d,%d), want (62500,32)", m.Period(), m.Divider())
	}
	if err := m.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	bus.writes = nil
	if err := m.SetDuty(0.5); err != nil {
		t.Fatalf("SetDuty: %v", err)
	}
	// Positive pin at 2048/4096 ticks, negative parked fully off.
	if got, want := bus.writes[0], []byte{regLEDBase, 0, 0, 0x00, 0x08}; !bytes.Equal(got, want) {
		t.Fatalf("positive write = %#v, want %#v", got, want)
	}
	if got, want := bus.writes[1], []byte{regLEDBase + 4, 0, 0, 0, fullBit}; !bytes.Equal(got, want) {
		t.Fatalf("negative write = %#v, want %#v", got, want)
	}
}
