package transport

import (
	"context"
	"net"
	"os"
	"testing"
	"time"
)

func TestFileSinkRawFraming(t *testing.T) {
	path := t.TempDir() + "/out.raw"
	sink, err := NewFileSink(path, FramingRaw)
	if err != nil {
		t.Fatal(err)
	}
	frame := make([]byte, 6144)
	for i := 0; i < 3; i++ {
		if err := sink.Send(context.Background(), frame); err != nil {
			t.Fatal(err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 3*6144 {
		t.Fatalf("raw file size = %d, want %d", info.Size(), 3*6144)
	}
}

func TestFileSinkStreamedFraming(t *testing.T) {
	path := t.TempDir() + "/out.stream"
	sink, err := NewFileSink(path, FramingStreamed)
	if err != nil {
		t.Fatal(err)
	}
	frame := make([]byte, 100)
	if err := sink.Send(context.Background(), frame); err != nil {
		t.Fatal(err)
	}
	sink.Close()
	info, _ := os.Stat(path)
	if info.Size() != 102 { // 2-byte length prefix + 100 payload
		t.Fatalf("streamed file size = %d, want 102", info.Size())
	}
}

func TestTCPServerBroadcastsAndDropsDeadClients(t *testing.T) {
	srv, err := NewTCPServerSink("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	addr := srv.listener.Addr().String()
	var conns []net.Conn
	for i := 0; i < 3; i++ {
		c, err := net.Dial("tcp", addr)
		if err != nil {
			t.Fatal(err)
		}
		conns = append(conns, c)
	}

	waitForClientCount(t, srv, 3)

	frame := []byte("AFpacketbytes")
	if err := srv.Send(context.Background(), frame); err != nil {
		t.Fatal(err)
	}

	for _, c := range conns {
		buf := make([]byte, len(frame))
		c.SetReadDeadline(time.Now().Add(time.Second))
		if _, err := c.Read(buf); err != nil {
			t.Fatalf("client did not receive frame: %v", err)
		}
	}

	conns[1].Close()
	// The server only drops a client when a write to it fails, and the
	// first write after the peer closes usually still succeeds (the peer
	// answers it with a reset), so send several more frames.
	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 10; i++ {
		srv.Send(context.Background(), frame)
		time.Sleep(10 * time.Millisecond)
	}
	waitForClientCount(t, srv, 2)
}

func waitForClientCount(t *testing.T, srv *TCPServerSink, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if srv.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d, got %d", want, srv.ClientCount())
}
