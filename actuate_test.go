package visio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelFrom(t *testing.T) {
	seen := map[Channel]int{}

	for i := 0; i < GridSize; i++ {
		ch := ChannelFrom(i)
		assert.NotEqual(t, ChannelAll, ch)
		assert.Equal(t, Channel(i), ch)
		seen[ch]++
	}

	assert.Len(t, seen, GridSize)
	assert.Equal(t, C0, ChannelFrom(0))
	assert.Equal(t, C15, ChannelFrom(15))

	for _, i := range []int{16, 17, 255, -1} {
		assert.Equal(t, ChannelAll, ChannelFrom(i), "index %d", i)
	}
}

func TestChannelString(t *testing.T) {
	assert.Equal(t, "C0", C0.String())
	assert.Equal(t, "C12", C12.String())
	assert.Equal(t, "all", ChannelAll.String())
}

func TestActuate(t *testing.T) {
	var s Strengths
	for i := range s {
		s[i] = uint16(i * 50)
	}

	pwm := newFakePWM()
	require.NoError(t, Actuate(pwm, s))

	require.Len(t, pwm.writes, GridSize)
	for i, w := range pwm.writes {
		assert.Equal(t, pwmWrite{ch: Channel(i), on: 0, off: uint16(i * 50)}, w)
	}
}

func TestActuateStopsAtFirstError(t *testing.T) {
	pwm := newFakePWM()
	pwm.failAt = 3
	pwm.err = errors.New("i2c nack")

	err := Actuate(pwm, Strengths{})

	require.ErrorIs(t, err, pwm.err)
	assert.Contains(t, err.Error(), "C3")
	assert.Len(t, pwm.writes, 3)
}
