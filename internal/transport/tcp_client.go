package transport

import (
	"context"
	"net"
	"sync"
	"time"
)

// TCPClientSink maintains a single long-lived connection to a
// configured peer. On disconnect it reconnects with exponential
// backoff starting at 1s and capping at 30s; frames produced while
// disconnected are dropped, never buffered (spec §4.5.4).
type TCPClientSink struct {
	addr string

	mu      sync.Mutex
	conn    net.Conn
	backoff time.Duration

	connectOnce sync.Once
	stopCh      chan struct{}
}

const (
	tcpClientMinBackoff = time.Second
	tcpClientMaxBackoff = 30 * time.Second
)

// NewTCPClientSink constructs a client sink and starts its background
// reconnect loop. The first connection attempt happens immediately and
// asynchronously; Send drops frames until it succeeds.
func NewTCPClientSink(addr string) *TCPClientSink {
	s := &TCPClientSink{addr: addr, backoff: tcpClientMinBackoff, stopCh: make(chan struct{})}
	go s.reconnectLoop()
	return s
}

func (s *TCPClientSink) reconnectLoop() {
	for {
		select {
		case <-s.stopCh:
			return
		default:
		}
		s.mu.Lock()
		connected := s.conn != nil
		s.mu.Unlock()
		if connected {
			time.Sleep(100 * time.Millisecond)
			continue
		}
		conn, err := net.DialTimeout("tcp", s.addr, 5*time.Second)
		if err != nil {
			select {
			case <-time.After(s.backoff):
			case <-s.stopCh:
				return
			}
			s.backoff *= 2
			if s.backoff > tcpClientMaxBackoff {
				s.backoff = tcpClientMaxBackoff
			}
			continue
		}
		s.mu.Lock()
		s.conn = conn
		s.backoff = tcpClientMinBackoff
		s.mu.Unlock()
	}
}

// Send writes frame to the current connection if one exists; it never
// blocks waiting for a connection, and a write failure drops the
// connection so the reconnect loop picks it back up.
func (s *TCPClientSink) Send(ctx context.Context, frame []byte) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil // disconnected: drop, per spec
	}
	_ = conn.SetWriteDeadline(time.Now().Add(time.Millisecond))
	if _, err := conn.Write(frame); err != nil {
		s.mu.Lock()
		if s.conn == conn {
			s.conn.Close()
			s.conn = nil
		}
		s.mu.Unlock()
		return nil
	}
	return nil
}

func (s *TCPClientSink) Close() error {
	close(s.stopCh)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
