package visio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

type tx struct {
	addr uint16
	w    []byte
}

// recordBus is an i2c.Bus that records writes and reads back zeros
type recordBus struct {
	txs []tx
	err error
}

func (b *recordBus) String() string { return "record" }

func (b *recordBus) SetSpeed(physic.Frequency) error { return nil }

func (b *recordBus) Tx(addr uint16, w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	b.txs = append(b.txs, tx{addr: addr, w: append([]byte(nil), w...)})
	clear(r)
	return nil
}

// ledWrite finds the last write to the LED register block starting at reg
func (b *recordBus) ledWrite(reg byte) []byte {
	for i := len(b.txs) - 1; i >= 0; i-- {
		if w := b.txs[i].w; len(w) == 5 && w[0] == reg {
			return w
		}
	}
	return nil
}

// prescale returns the value of the last write to the PRE_SCALE register
func (b *recordBus) prescale() (byte, bool) {
	for i := len(b.txs) - 1; i >= 0; i-- {
		if w := b.txs[i].w; len(w) == 2 && w[0] == 0xFE {
			return w[1], true
		}
	}
	return 0, false
}

func TestPCA9685Prescale(t *testing.T) {
	bus := &recordBus{}
	_, err := NewPCA9685(bus, 0x40)
	require.NoError(t, err)

	p, ok := bus.prescale()
	require.True(t, ok)
	assert.Equal(t, byte(100), p)
}

func TestPCA9685SetChannel(t *testing.T) {
	bus := &recordBus{}
	pwm, err := NewPCA9685(bus, 0x40)
	require.NoError(t, err)

	require.NoError(t, pwm.SetChannelOnOff(C3, 0, 533))

	// LED3_ON_L is 0x06 + 4*3
	w := bus.ledWrite(0x12)
	require.NotNil(t, w)
	assert.Equal(t, uint16(0x40), bus.txs[len(bus.txs)-1].addr)
	assert.Equal(t, []byte{0x12, 0, 0, 533 & 0xFF, 533 >> 8}, w)
}

func TestPCA9685AllChannels(t *testing.T) {
	bus := &recordBus{}
	pwm, err := NewPCA9685(bus, 0x40)
	require.NoError(t, err)

	bus.txs = nil
	require.NoError(t, pwm.SetChannelOnOff(ChannelAll, 0, 0))

	// ALL_LED_ON_L
	assert.NotNil(t, bus.ledWrite(0xFA))
}

func TestPCA9685RejectsUnknownChannel(t *testing.T) {
	pwm, err := NewPCA9685(&recordBus{}, 0x40)
	require.NoError(t, err)

	assert.Error(t, pwm.SetChannelOnOff(Channel(16), 0, 100))
}

func TestPCA9685BusError(t *testing.T) {
	bus := &recordBus{err: errors.New("nack")}

	_, err := NewPCA9685(bus, 0x40)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pca9685 init")
}
