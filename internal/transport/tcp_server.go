package transport

import (
	"context"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// TCPServerSink binds and listens on a configured port; each accepted
// connection joins a broadcast set. A frame is sent to every healthy
// connection; a connection whose send fails is closed and removed.
// There is no per-client backpressure: slow clients are disconnected
// rather than allowed to stall the producer (spec §4.5.4, scenario 6).
type TCPServerSink struct {
	listener net.Listener

	mu      sync.Mutex
	clients map[net.Conn]struct{}

	stopCh chan struct{}
}

// NewTCPServerSink binds addr and starts accepting connections in the
// background. A bind failure is returned immediately and is treated by
// the caller as a startup-fatal sink error (spec §7: "Sink permanent:
// bind failure on startup -> Fail at startup").
func NewTCPServerSink(addr string) (*TCPServerSink, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &TCPServerSink{
		listener: ln,
		clients:  make(map[net.Conn]struct{}),
		stopCh:   make(chan struct{}),
	}
	go s.acceptLoop()
	return s, nil
}

func (s *TCPServerSink) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				continue
			}
		}
		s.mu.Lock()
		s.clients[conn] = struct{}{}
		s.mu.Unlock()
	}
}

// Send fans a frame out to every connected client concurrently via
// errgroup, removing any connection whose write fails or blocks past a
// short deadline.
func (s *TCPServerSink) Send(ctx context.Context, frame []byte) error {
	s.mu.Lock()
	snapshot := make([]net.Conn, 0, len(s.clients))
	for c := range s.clients {
		snapshot = append(snapshot, c)
	}
	s.mu.Unlock()

	if len(snapshot) == 0 {
		return nil
	}

	var g errgroup.Group
	var dead sync.Map
	for _, c := range snapshot {
		c := c
		g.Go(func() error {
			_ = c.SetWriteDeadline(time.Now().Add(time.Millisecond))
			if _, err := c.Write(frame); err != nil {
				dead.Store(c, struct{}{})
			}
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	dead.Range(func(k, _ interface{}) bool {
		c := k.(net.Conn)
		c.Close()
		delete(s.clients, c)
		return true
	})
	s.mu.Unlock()
	return nil
}

// ClientCount returns the number of currently connected clients.
func (s *TCPServerSink) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *TCPServerSink) Close() error {
	close(s.stopCh)
	s.mu.Lock()
	for c := range s.clients {
		c.Close()
	}
	s.clients = nil
	s.mu.Unlock()
	return s.listener.Close()
}
