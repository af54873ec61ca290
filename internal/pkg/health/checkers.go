package health

import (
	"context"
	"errors"
)

// Pinger is any dependency that can answer a liveness ping
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker reports whether a dependency is usable
type Checker interface {
	CheckHealth(ctx context.Context) error
}

// PingChecker adapts a Pinger such as the Postgres or Redis client
type PingChecker struct {
	pinger Pinger
}

// NewPingChecker creates a checker that pings the dependency
func NewPingChecker(p Pinger) *PingChecker {
	return &PingChecker{pinger: p}
}

// CheckHealth pings the dependency; a nil dependency is skipped
func (p *PingChecker) CheckHealth(ctx context.Context) error {
	if p.pinger == nil {
		return nil
	}
	return p.pinger.Ping(ctx)
}

// Connection is a client that tracks its own connection state
type Connection interface {
	IsConnected() bool
}

// ConnectionChecker reports a dependency that holds a long-lived connection, like NATS
type ConnectionChecker struct {
	name string
	conn Connection
}

// NewConnectionChecker creates a checker for a connected client
func NewConnectionChecker(name string, conn Connection) *ConnectionChecker {
	return &ConnectionChecker{name: name, conn: conn}
}

// CheckHealth fails while the client is disconnected
func (c *ConnectionChecker) CheckHealth(ctx context.Context) error {
	if c.conn == nil {
		return nil
	}
	if !c.conn.IsConnected() {
		return errors.New(c.name + " not connected")
	}
	return nil
}
