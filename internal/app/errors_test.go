package app

import (
	"errors"
	"testing"
)

func TestInitError(t *testing.T) {
	inner := errors.New("no tty")
	err := &InitError{Component: "backend", Err: inner}

	if err.Error() != "init backend: no tty" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("InitError should unwrap to the cause")
	}
}

func TestComponentError(t *testing.T) {
	inner := errors.New("boom")

	tests := []struct {
		err  *ComponentError
		want string
	}{
		{&ComponentError{Component: "bus", Action: "reply to x", Err: inner}, "bus: reply to x: boom"},
		{&ComponentError{Component: "renderer", Err: inner}, "renderer: boom"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
		if !errors.Is(tt.err, inner) {
			t.Errorf("%q should unwrap to the cause", tt.want)
		}
	}
}
