package errcode

// Code is a stable error identifier for motor/PWM operations.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Construction / configuration
	InvalidConfig Code = "invalid_config"
	InvalidParams Code = "invalid_params"

	// Runtime commands
	UnrealizableFrequency Code = "unrealizable_frequency"
	InvalidRange          Code = "invalid_range"
	Unsupported           Code = "unsupported"

	// Backend / resource claims
	UnknownPin Code = "unknown_pin"
	PinInUse   Code = "pin_in_use"
	NotBound   Code = "not_bound"

	Error Code = "error" // generic fallback
)

// E is an optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
