package model

import (
	"context"
	"io"
	"os"
	"time"
)

// InputSource supplies one subchannel's worth of bytes per multiplex
// frame period. ReadSlice must return exactly n bytes or an error; it
// never blocks past deadline (spec §6 Non-goals exclude audio
// encoding, so sources here only ever move already-encoded bytes).
type InputSource interface {
	ReadSlice(ctx context.Context, n int, deadline time.Time) ([]byte, error)
	Close() error
}

// FileInputSource reads a raw byte stream from disk or a FIFO,
// delivering n bytes per call and padding a short final read with
// zero bytes so the subchannel's CU allocation is always filled.
type FileInputSource struct {
	f *os.File
}

// NewFileInputSource opens path for reading.
func NewFileInputSource(path string) (*FileInputSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileInputSource{f: f}, nil
}

func (s *FileInputSource) ReadSlice(ctx context.Context, n int, deadline time.Time) ([]byte, error) {
	buf := make([]byte, n)
	if !deadline.IsZero() {
		// Regular files do not support deadlines; FIFOs and other
		// pollable descriptors fail the Read once deadline passes.
		_ = s.f.SetReadDeadline(deadline)
	}
	read := 0
	for read < n {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		m, err := s.f.Read(buf[read:])
		read += m
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
	}
	for i := read; i < n; i++ {
		buf[i] = 0
	}
	return buf, nil
}

func (s *FileInputSource) Close() error {
	return s.f.Close()
}

// ZeroFillInputSource emits n zero bytes on every call, used for
// subchannels configured with no live input (silence/padding filler,
// spec §6).
type ZeroFillInputSource struct{}

func NewZeroFillInputSource() *ZeroFillInputSource {
	return &ZeroFillInputSource{}
}

func (ZeroFillInputSource) ReadSlice(ctx context.Context, n int, deadline time.Time) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return make([]byte, n), nil
}

func (ZeroFillInputSource) Close() error { return nil }
