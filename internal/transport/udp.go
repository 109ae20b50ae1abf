package transport

import (
	"context"
	"net"
	"time"

	"golang.org/x/net/ipv4"
)

// UDPSink sends each frame as one (or, under PFT, several) UDP
// datagrams to a unicast or multicast destination: no retry, no flow
// control (spec §4.5.4).
type UDPSink struct {
	conn      *net.UDPConn
	pconn     *ipv4.PacketConn // non-nil when the destination is multicast
	dest      *net.UDPAddr
	sendTimeo time.Duration
}

// NewUDPSink opens a UDP socket for dest. When dest's IP is within
// 224.0.0.0/4 the socket is wrapped with golang.org/x/net/ipv4 so TTL
// and multicast-interface selection are available (spec §6: "Multicast
// addresses are 224.0.0.0/4").
func NewUDPSink(dest *net.UDPAddr, multicastTTL int) (*UDPSink, error) {
	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return nil, err
	}
	s := &UDPSink{conn: conn, dest: dest, sendTimeo: time.Millisecond}
	if dest.IP.IsMulticast() {
		pconn := ipv4.NewPacketConn(conn)
		if multicastTTL > 0 {
			_ = pconn.SetMulticastTTL(multicastTTL)
		}
		s.pconn = pconn
	}
	return s, nil
}

// Send transmits frame with a best-effort deadline: a send that would
// block past sendTimeo is abandoned (spec §5: "socket sends MUST be
// best-effort, SO_SNDTIMEO or equivalent <= 1ms").
func (s *UDPSink) Send(ctx context.Context, frame []byte) error {
	deadline := time.Now().Add(s.sendTimeo)
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	_, err := s.conn.WriteToUDP(frame, s.dest)
	return err
}

func (s *UDPSink) Close() error {
	return s.conn.Close()
}
