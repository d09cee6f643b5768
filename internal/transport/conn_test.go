package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"testing"
	"time"
)

// startEchoPeer listens on a loopback port and passes each accepted
// connection to serve on its own goroutine.
func startEchoPeer(t *testing.T, serve func(net.Conn)) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serve(conn)
		}
	}()
	return ln
}

func dialPeer(t *testing.T, ln net.Listener) *Conn {
	t.Helper()
	port := ln.Addr().(*net.TCPAddr).Port
	conn, err := Dial(context.Background(), "127.0.0.1", port, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestReadFullExact(t *testing.T) {
	ln := startEchoPeer(t, func(c net.Conn) {
		// Deliver the bytes in two chunks to exercise the re-read path.
		c.Write([]byte{1, 2, 3})
		time.Sleep(10 * time.Millisecond)
		c.Write([]byte{4, 5, 6, 7, 8})
		c.Close()
	})
	conn := dialPeer(t, ln)

	buf := make([]byte, 8)
	if err := conn.ReadFull(buf); err != nil {
		t.Fatal(err)
	}
	for i, b := range buf {
		if int(b) != i+1 {
			t.Fatalf("buf[%d] = %d, want %d", i, b, i+1)
		}
	}
}

func TestReadFullCleanCloseIsEOF(t *testing.T) {
	ln := startEchoPeer(t, func(c net.Conn) {
		c.Close()
	})
	conn := dialPeer(t, ln)

	err := conn.ReadFull(make([]byte, 16))
	if !errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("clean close: got %v, want io.EOF", err)
	}
}

func TestReadFullPartialIsUnexpectedEOF(t *testing.T) {
	ln := startEchoPeer(t, func(c net.Conn) {
		c.Write(make([]byte, 10))
		c.Close()
	})
	conn := dialPeer(t, ln)

	err := conn.ReadFull(make([]byte, 16))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("partial close: got %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	ln := startEchoPeer(t, func(c net.Conn) {})
	conn := dialPeer(t, ln)

	if err := conn.Close(); err != nil {
		t.Fatal(err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestDialRefusedClassification(t *testing.T) {
	// Grab a port that nothing is listening on.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	_, err = Dial(context.Background(), "127.0.0.1", port, 2*time.Second)
	if !errors.Is(err, ErrRefused) {
		t.Fatalf("got %v, want ErrRefused", err)
	}
}

// timeoutErr fakes a net.Error that reports a timeout.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return false }

func TestClassifyDialError(t *testing.T) {
	refused := &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
	if err := classifyDialError("host:1", refused); !errors.Is(err, ErrRefused) {
		t.Fatalf("refused: got %v", err)
	}
	if err := classifyDialError("host:1", timeoutErr{}); !errors.Is(err, ErrTimeout) {
		t.Fatalf("timeout: got %v", err)
	}
	if err := classifyDialError("host:1", context.DeadlineExceeded); !errors.Is(err, ErrTimeout) {
		t.Fatalf("deadline: got %v", err)
	}
	other := fmt.Errorf("no route to host")
	if err := classifyDialError("host:1", other); errors.Is(err, ErrRefused) || errors.Is(err, ErrTimeout) {
		t.Fatalf("other: misclassified as %v", err)
	}
}
