package sharedbus

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

// overlapBus records whether two transactions were ever in flight at once
type overlapBus struct {
	inFlight atomic.Int32
	overlap  atomic.Bool
	count    atomic.Int32
	speed    physic.Frequency
	err      error
}

func (b *overlapBus) String() string { return "I2C1" }

func (b *overlapBus) Tx(addr uint16, w, r []byte) error {
	if b.inFlight.Add(1) > 1 {
		b.overlap.Store(true)
	}
	time.Sleep(50 * time.Microsecond)
	b.count.Add(1)
	b.inFlight.Add(-1)
	return b.err
}

func (b *overlapBus) SetSpeed(f physic.Frequency) error {
	b.speed = f
	return nil
}

func TestProxiesDoNotInterleave(t *testing.T) {
	bus := &overlapBus{}
	m := New(bus)

	display, pwm := m.Acquire(), m.Acquire()

	var wg sync.WaitGroup
	for _, p := range []*Proxy{display, pwm} {
		wg.Add(1)
		go func(p *Proxy) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				assert.NoError(t, p.Tx(0x40, []byte{0x06, 0, 0, 0, 0}, nil))
			}
		}(p)
	}
	wg.Wait()

	assert.False(t, bus.overlap.Load())
	assert.Equal(t, int32(100), bus.count.Load())
}

func TestProxyPassesErrors(t *testing.T) {
	bus := &overlapBus{err: errors.New("nack")}
	p := New(bus).Acquire()

	require.ErrorIs(t, p.Tx(0x3C, []byte{0x00}, nil), bus.err)
}

func TestProxySetSpeedAndString(t *testing.T) {
	bus := &overlapBus{}
	p := New(bus).Acquire()

	require.NoError(t, p.SetSpeed(400*physic.KiloHertz))
	assert.Equal(t, 400*physic.KiloHertz, bus.speed)
	assert.Equal(t, "shared(I2C1)", p.String())
}
