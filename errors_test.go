package chatteroo

import (
	"errors"
	"testing"
)

func TestProtocolErrorUnwrap(t *testing.T) {
	underlying := errors.New("socket reset")
	pe := &ProtocolError{Underlying: underlying}

	if !errors.Is(pe, underlying) {
		t.Error("errors.Is should see through ProtocolError to its Underlying cause")
	}
	if pe.Error() == "" {
		t.Error("Error() should not be empty")
	}
}
