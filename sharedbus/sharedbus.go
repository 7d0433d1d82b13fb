// Package sharedbus lets several device drivers use one I2C bus without their
// transactions interleaving.
//
// A Manager owns the bus and hands out proxies.  Each proxy implements
// i2c.Bus and holds the manager's lock for exactly one transaction.
package sharedbus

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Manager serializes access to a bus shared by several logical devices
type Manager struct {
	mu  sync.Mutex
	bus i2c.Bus
}

// New returns a Manager for bus.  The caller keeps ownership of the bus and
// closes it once every proxy is done with it.
func New(bus i2c.Bus) *Manager {
	return &Manager{bus: bus}
}

// Acquire returns a new proxy handle onto the shared bus
func (m *Manager) Acquire() *Proxy {
	return &Proxy{m: m}
}

// Proxy is a handle onto a shared bus given to one device driver
type Proxy struct {
	m *Manager
}

// String implements conn.Resource
func (p *Proxy) String() string {
	return fmt.Sprintf("shared(%s)", p.m.bus)
}

// Tx performs one write then read transaction to addr while holding the bus
func (p *Proxy) Tx(addr uint16, w, r []byte) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()

	return p.m.bus.Tx(addr, w, r)
}

// SetSpeed changes the clock of the shared bus, so it applies to every proxy
func (p *Proxy) SetSpeed(f physic.Frequency) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()

	return p.m.bus.SetSpeed(f)
}

var _ i2c.Bus = (*Proxy)(nil)
