package channel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermanent(t *testing.T) {
	cause := errors.New("destination cannot be empty")

	tests := []struct {
		name          string
		err           error
		wantPermanent bool
		wantMessage   string
	}{
		{name: "Wrapped", err: Permanent(cause), wantPermanent: true, wantMessage: cause.Error()},
		{name: "Wrapped Twice Through fmt", err: fmt.Errorf("send: %w", Permanent(cause)), wantPermanent: true, wantMessage: "send: " + cause.Error()},
		{name: "Plain Error", err: cause, wantPermanent: false, wantMessage: cause.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPermanent, errors.Is(tt.err, ErrPermanent))
			assert.ErrorIs(t, tt.err, cause)
			assert.EqualError(t, tt.err, tt.wantMessage)
		})
	}
}

func TestPermanent_Nil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
