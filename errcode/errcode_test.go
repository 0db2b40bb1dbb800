package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeIsError(t *testing.T) {
	var err error = InvalidConfig
	if err.Error() != "invalid_config" {
		t.Fatalf("Error() = %q, want invalid_config", err.Error())
	}
	if Of(err) != InvalidConfig {
		t.Fatalf("Of(Code) = %v, want InvalidConfig", Of(err))
	}
}

func TestWrapperCarriesCodeAndCause(t *testing.T) {
	cause := errors.New("i2c nack")
	err := &E{C: PinInUse, Op: "bind", Msg: "pin 5", Err: cause}
	if Of(err) != PinInUse {
		t.Fatalf("Of(E) = %v, want PinInUse", Of(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped cause lost: %v", err)
	}
	if err.Error() != "pin_in_use: pin 5" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestOfDefaults(t *testing.T) {
	if Of(nil) != OK {
		t.Fatalf("Of(nil) = %v, want OK", Of(nil))
	}
	if Of(fmt.Errorf("plain")) != Error {
		t.Fatalf("Of(plain) = %v, want Error", Of(fmt.Errorf("plain")))
	}
}
