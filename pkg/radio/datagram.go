package radio

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/deeja/bthome/pkg/bthome"
	"github.com/pion/logging"
)

// DatagramConfig configures a Datagram sink.
type DatagramConfig struct {
	// Address is the UDP destination, host:port.
	Address string

	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// Datagram writes each advertisement as one datagram. Receivers get the raw
// frame, exactly as it would appear on air.
type Datagram struct {
	conn net.Conn
	log  logging.LeveledLogger

	mu     sync.Mutex
	closed bool
}

// NewDatagram dials the configured UDP address.
func NewDatagram(config DatagramConfig) (*Datagram, error) {
	conn, err := net.Dial("udp", config.Address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", config.Address, err)
	}
	return NewDatagramConn(conn, config.LoggerFactory), nil
}

// NewDatagramConn sends on an existing connection. The Datagram owns conn.
func NewDatagramConn(conn net.Conn, loggerFactory logging.LoggerFactory) *Datagram {
	d := &Datagram{conn: conn}
	if loggerFactory != nil {
		d.log = loggerFactory.NewLogger("radio")
	}
	return d
}

// Transmit writes the frame. The context deadline, if any, bounds the write.
func (d *Datagram) Transmit(ctx context.Context, adv bthome.Advertisement) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}

	deadline, _ := ctx.Deadline()
	if err := d.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if _, err := d.conn.Write(adv.Data); err != nil {
		return fmt.Errorf("write datagram: %w", err)
	}
	if d.log != nil {
		d.log.Tracef("sent %d bytes to %s", len(adv.Data), d.conn.RemoteAddr())
	}
	return nil
}

// Close closes the connection.
func (d *Datagram) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.conn.Close()
}
