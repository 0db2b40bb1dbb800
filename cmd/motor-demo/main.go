//go:build rp2040

// Command motor-demo: one dual-pin motor channel on a Pico, driven by a
// line-oriented console on UART0.
//
// Build/flash (TinyGo):
//
//	tinygo flash -target pico ./cmd/motor-demo
//
// Wiring assumptions (edit below as needed):
// - UART0 on Pico defaults: TX=GP0, RX=GP1, 115200 8N1.
// - H-bridge inputs on GP6 (positive) and GP7 (negative) — the two
//   channels of PWM slice 3, so they stay frequency-locked for free.
//
// Console commands:
//
//	duty <v>       normalized duty in [-1, 1]
//	sweep <v> [ms] ramp to a duty over ms (default 500)
//	speed <v>      speed in user units
//	pct <v>        map 0..100 onto the full speed range
//	freq <hz>      change PWM frequency live
//	dir n|r        direction normal/reversed
//	decay slow|fast
//	scale <v>      speed scale
//	dz <v>         deadzone in [0, 1)
//	on | off | stop | coast | full+ | full- | status
package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"motordrive-go/drivers/motor"
	"motordrive-go/drivers/motor/rp2pwm"
	"motordrive-go/x/ramp"
)

const maxLine = 96

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(3 * time.Second)
	println("== motordrive: Pico demo (dual-pin channel, UART console) ==")

	_ = uartx.UART0.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.Pin(0),
		RX:       machine.Pin(1),
	})

	m, err := motor.New(rp2pwm.New(), motor.PinPair{Positive: 6, Negative: 7}, motor.DefaultConfig())
	if err != nil {
		println("motor config:", err.Error())
		return
	}
	if err := m.Init(); err != nil {
		println("motor init:", err.Error())
		return
	}
	status(m)

	// Accumulate UTF-8-ish lines; ignore CR; split on LF.
	buf := make([]byte, 64)
	var line []byte
	for {
		rctx, rcancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
		n, _ := uartx.UART0.RecvSomeContext(rctx, buf)
		rcancel()
		for i := 0; i < n; i++ {
			switch b := buf[i]; b {
			case '\n':
				handle(m, string(line))
				line = line[:0]
			case '\r':
				// ignore
			default:
				if len(line) < maxLine {
					line = append(line, b)
				}
			}
		}
	}
}

func handle(m *motor.Motor, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	cmd := fields[0]
	var arg float64
	if len(fields) > 1 {
		v, err := strconv.ParseFloat(fields[1], 32)
		if err != nil && needsNumber(cmd) {
			println("bad argument:", fields[1])
			return
		}
		arg = v
	}

	var err error
	switch cmd {
	case "duty":
		err = m.SetDuty(float32(arg))
	case "speed":
		err = m.SetSpeed(float32(arg))
	case "pct":
		err = m.ToPercent(float32(arg), 0, 100)
	case "freq":
		err = m.SetFrequency(float32(arg))
	case "scale":
		err = m.SetSpeedScale(float32(arg))
	case "dz":
		err = m.SetDeadzone(float32(arg))
	case "dir":
		d := motor.Normal
		if len(fields) > 1 && fields[1] == "r" {
			d = motor.Reversed
		}
		err = m.SetDirection(d)
	case "decay":
		mode := motor.SlowDecay
		if len(fields) > 1 && fields[1] == "fast" {
			mode = motor.FastDecay
		}
		err = m.SetDecayMode(mode)
	case "on":
		err = m.Enable()
	case "off":
		err = m.Disable()
	case "stop":
		err = m.Stop()
	case "coast":
		err = m.Coast()
	case "sweep":
		// sweep <duty> [ms]: ramp to a new duty instead of stepping.
		dur := 500 * time.Millisecond
		if len(fields) > 2 {
			if ms, e := strconv.Atoi(fields[2]); e == nil && ms > 0 {
				dur = time.Duration(ms) * time.Millisecond
			}
		}
		ramp.StartLinear(m.Duty(), float32(arg), dur, 25,
			func(d time.Duration) bool { time.Sleep(d); return true },
			func(d float32) { err = m.SetDuty(d) })
	case "full+":
		err = m.FullPositive()
	case "full-":
		err = m.FullNegative()
	case "status":
		status(m)
		return
	default:
		println("unknown command:", cmd)
		return
	}
	if err != nil {
		println("error:", err.Error())
		return
	}
	status(m)
}

func needsNumber(cmd string) bool {
	switch cmd {
	case "duty", "speed", "pct", "freq", "scale", "dz", "sweep":
		return true
	}
	return false
}

func status(m *motor.Motor) {
	println("duty:", float64(m.Duty()),
		"speed:", float64(m.Speed()),
		"freq:", float64(m.Frequency()),
		"period:", m.Period(),
		"dir:", m.Direction().String(),
		"decay:", m.DecayMode().String(),
		"enabled:", m.Enabled())
}
