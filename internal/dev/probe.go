package dev

import (
	"net"
	"time"

	"github.com/vango-dev/packs/internal/config"
)

// Probe reports whether a development server is accepting connections.
type Probe struct {
	address string
	timeout time.Duration
}

// NewProbe creates a probe for address (host:port).
func NewProbe(address string, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = config.DefaultConnectTimeout
	}
	return &Probe{address: address, timeout: timeout}
}

// NewProbeFromConfig creates a probe for the configured dev server.
func NewProbeFromConfig(cfg *config.Config) *Probe {
	return NewProbe(cfg.DevServerAddress(), cfg.ConnectTimeout())
}

// IsRunning dials the dev server. Any connection failure, including a timeout,
// counts as not running.
func (p *Probe) IsRunning() bool {
	conn, err := net.DialTimeout("tcp", p.address, p.timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Address returns the probed host:port.
func (p *Probe) Address() string {
	return p.address
}
