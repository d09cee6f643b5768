// Package transport owns the TCP connection to a game server and provides
// the byte-exact read and drained-write primitives the protocol layer is
// built on.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"
)

var (
	// ErrRefused wraps dial failures where the peer actively refused.
	ErrRefused = errors.New("connection refused")
	// ErrTimeout wraps dial failures that hit the connect timeout.
	ErrTimeout = errors.New("connect timed out")
)

// Conn is a single TCP connection. The receive loop is the only reader;
// writes may come from multiple callers and are serialized by writeMu so
// partial frames never interleave on the wire.
type Conn struct {
	conn      net.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// Dial establishes a TCP connection to host:port. The timeout bounds
// connection establishment only; the steady-state read path has no
// deadline. Failures are classified so callers can errors.Is against
// ErrRefused and ErrTimeout for diagnostics.
func Dial(ctx context.Context, host string, port int, timeout time.Duration) (*Conn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, classifyDialError(addr, err)
	}
	return &Conn{conn: conn}, nil
}

func classifyDialError(addr string, err error) error {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("dial %s: %w", addr, ErrRefused)
	case isTimeout(err):
		return fmt.Errorf("dial %s: %w", addr, ErrTimeout)
	default:
		return fmt.Errorf("dial %s: %w", addr, err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// ReadFull blocks until buf is completely filled or the peer closes.
// A clean close before any byte arrives returns io.EOF; a close after
// 1..len(buf)-1 bytes returns io.ErrUnexpectedEOF. Callers rely on that
// distinction to tell graceful disconnects from torn frames.
func (c *Conn) ReadFull(buf []byte) error {
	_, err := io.ReadFull(c.conn, buf)
	return err
}

// Write sends b in full. net.Conn blocks until the kernel buffer accepts
// the data, which is the back-pressure point for senders.
func (c *Conn) Write(b []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write(b); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Close tears down the connection. Idempotent: the disconnect path may hit
// it more than once, and it unblocks any in-flight ReadFull.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// RemoteAddr reports the peer's address, for logging.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
