// Package transport implements the output sinks that carry assembled
// ETI frames and EDI packets off the producer: file, UDP, and TCP
// (client and server) (spec §4.5.4, §5).
package transport

import "context"

// Sink receives complete frames (ETI or an EDI AF/PFT packet,
// depending on the sink) from the producer. Send must never block for
// more than a short, bounded time: a sink that would block drops the
// frame instead (spec §5 suspension points).
type Sink interface {
	Send(ctx context.Context, frame []byte) error
	Close() error
}
