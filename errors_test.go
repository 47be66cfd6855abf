package asciimg

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindExitCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindFail, 1},
		{KindArgument, 2},
		{KindInput, 3},
		{KindMemory, 4},
		{KindEnvironment, 5},
		{KindIO, 6},
		{Kind(0), 1},
		{Kind(42), 1},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.ExitCode())
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(nil))
	assert.Equal(t, KindFail, KindOf(io.EOF))

	err := NewError(KindIO, "write", io.ErrShortWrite)
	assert.Equal(t, KindIO, KindOf(err))
	assert.ErrorIs(t, err, io.ErrShortWrite)

	wrapped := fmt.Errorf("frame 3: %w", err)
	assert.Equal(t, KindIO, KindOf(wrapped))
}

func TestError(t *testing.T) {
	assert.Nil(t, NewError(KindInput, "decode", nil))

	err := Errorf(KindArgument, "filter", "unknown filter %q", "bogus")
	assert.EqualError(t, err, `filter: unknown filter "bogus"`)

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, KindArgument, e.Kind)

	assert.EqualError(t, Errorf(KindFail, "", "boom"), "boom")
}
