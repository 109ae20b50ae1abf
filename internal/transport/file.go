package transport

import (
	"context"
	"encoding/binary"
	"os"
)

// FileFraming selects one of the three ETI file output variants (spec
// §4.4/§6).
type FileFraming int

const (
	FramingRaw FileFraming = iota
	FramingFramed
	FramingStreamed
)

// FileSink writes successive frames to a file (or FIFO) using the
// configured framing.
type FileSink struct {
	f         *os.File
	framing   FileFraming
	frameSeen uint32
	wroteHdr  bool
}

// NewFileSink opens path for writing (truncating any existing
// contents) with the given framing.
func NewFileSink(path string, framing FileFraming) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f, framing: framing}, nil
}

// writeHeaderIfNeeded writes the 16-byte header once at the start of a
// Framed-variant file: a magic tag and the frame count, back-patched
// on Close.
func (s *FileSink) writeHeaderIfNeeded() error {
	if s.framing != FramingFramed || s.wroteHdr {
		return nil
	}
	hdr := make([]byte, 16)
	copy(hdr, []byte("DABMUXETI"))
	if _, err := s.f.Write(hdr); err != nil {
		return err
	}
	s.wroteHdr = true
	return nil
}

func (s *FileSink) Send(ctx context.Context, frame []byte) error {
	if err := s.writeHeaderIfNeeded(); err != nil {
		return err
	}
	switch s.framing {
	case FramingRaw:
		if _, err := s.f.Write(frame); err != nil {
			return err
		}
	case FramingFramed, FramingStreamed:
		var lenPrefix [2]byte
		binary.BigEndian.PutUint16(lenPrefix[:], uint16(len(frame)))
		if _, err := s.f.Write(lenPrefix[:]); err != nil {
			return err
		}
		if _, err := s.f.Write(frame); err != nil {
			return err
		}
	}
	s.frameSeen++
	return nil
}

// Close finalizes the Framed variant's header with the true frame
// count, then closes the file.
func (s *FileSink) Close() error {
	if s.framing == FramingFramed && s.wroteHdr {
		if _, err := s.f.Seek(9, 0); err == nil {
			var count [4]byte
			binary.BigEndian.PutUint32(count[:], s.frameSeen)
			s.f.Write(count[:])
		}
	}
	return s.f.Close()
}
