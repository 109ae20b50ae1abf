// Package eti assembles bit-exact 6144-byte ETI-NI frames (ETSI
// EN 300 799) from a FIC block and per-subchannel MSC payloads.
package eti

import (
	"encoding/binary"

	"github.com/magicbadger/dabmux/internal/crcfec"
	"github.com/magicbadger/dabmux/internal/model"
)

// FrameSize is the fixed wire size of every ETI-NI frame.
const FrameSize = 6144

// PaddingByte fills the unused tail of every frame.
const PaddingByte = 0x55

const (
	fsyncEven uint32 = 0x073AB6
	fsyncOdd  uint32 = 0xF8C549
)

// SubchannelPayload is one subchannel's framed contribution to an ETI
// frame: its STC descriptor fields plus exactly PayloadBytes() of MSC
// data (spec §4.4).
type SubchannelPayload struct {
	SCID    byte
	SAD     int // start address, CU
	TPL     byte
	STL     int // 64-bit words
	Payload []byte
}

// Assembler builds successive ETI frames, alternating FSYNC and
// advancing FCT/FP on every call (spec §4.4: "FCT is frame_number mod
// 250"; "FP is the 0..7 phase within a 96 ms superframe").
type Assembler struct {
	Mode         model.TransmissionMode
	EnableTIST   bool
	frameCounter uint32
}

// NewAssembler constructs a frame assembler for the given transmission
// mode.
func NewAssembler(mode model.TransmissionMode, enableTIST bool) *Assembler {
	return &Assembler{Mode: mode, EnableTIST: enableTIST}
}

// FrameNumber returns the 0-based frame index of the next call to
// AssembleFrame.
func (a *Assembler) FrameNumber() uint32 { return a.frameCounter }

// FrameInfo carries the per-frame values AssembleFrame computes
// internally that a downstream EDI encoder also needs (the deti TAG
// item's EOH CRC and FP fields, spec §4.5.1) so callers never have to
// recompute or guess them from the assembled bytes.
type FrameInfo struct {
	EOHCRC uint16
	FP     byte
}

// AssembleFrame packs one ETI-NI frame: SYNC, FC, STC[*], EOH, fic,
// subchannel payloads (MSC), EOF, optional TIST, then 0x55 padding to
// FrameSize. subs must already be in ascending SCID order (spec §4.4:
// "subchannels are emitted in SCID order"). It also returns the FrameInfo
// for this frame so an EDI encoder can mirror the exact values carried
// on the ETI side.
func (a *Assembler) AssembleFrame(fic []byte, subs []SubchannelPayload, tistTicks uint64) ([]byte, FrameInfo) {
	frame := make([]byte, FrameSize)
	n := a.frameCounter

	frame[0] = 0x00 // ERR: no error
	fsync := fsyncEven
	if n%2 == 1 {
		fsync = fsyncOdd
	}
	frame[1] = byte(fsync >> 16)
	frame[2] = byte(fsync >> 8)
	frame[3] = byte(fsync)

	fct := byte(n % 250)
	fp := byte(n % 8) // frame phase: cycles 0..7 with the frame counter
	ficf := byte(1)
	nst := byte(len(subs))
	mid := a.Mode.MIDValue()

	stcLen := 4 * len(subs)
	ficLen := len(fic)
	mscLen := 0
	for _, s := range subs {
		mscLen += len(s.Payload)
	}
	eohLen := 4
	eofLen := 4
	wordsAfterFC := (stcLen + eohLen + ficLen + mscLen + eofLen) / 4
	fl := uint16(wordsAfterFC) & 0x07FF

	frame[4] = fct
	frame[5] = ficf<<7 | nst&0x7F
	frame[6] = byte(fp&0x7)<<5 | mid<<3 | byte(fl>>8)&0x7
	frame[7] = byte(fl)

	off := 8
	for _, s := range subs {
		word := uint32(s.SCID&0x3F)<<26 | uint32(s.SAD&0x3FF)<<16 | uint32(s.TPL&0x3F)<<10 | uint32(s.STL&0x3FF)
		binary.BigEndian.PutUint32(frame[off:], word)
		off += 4
	}

	eohStart := off // == 8 + stcLen
	frame[off] = 0xFF // MNSC, not modelled: RFU pattern
	frame[off+1] = 0xFF
	off += 2
	eohCRC := crcfec.CRC16CCITTInverted(frame[4:eohStart])
	frame[off] = byte(eohCRC >> 8)
	frame[off+1] = byte(eohCRC)
	off += 2

	copy(frame[off:], fic)
	off += ficLen

	mscStart := off
	for _, s := range subs {
		copy(frame[off:], s.Payload)
		off += len(s.Payload)
	}
	eofCRC := crcfec.CRC16CCITTInverted(frame[mscStart:off])
	frame[off] = byte(eofCRC >> 8)
	frame[off+1] = byte(eofCRC)
	frame[off+2] = 0xFF
	frame[off+3] = 0xFF
	off += 4

	if a.EnableTIST {
		frame[off] = byte(tistTicks >> 16)
		frame[off+1] = byte(tistTicks >> 8)
		frame[off+2] = byte(tistTicks)
		frame[off+3] = 0x00
		off += 4
	}

	for i := off; i < FrameSize; i++ {
		frame[i] = PaddingByte
	}

	a.frameCounter++
	return frame, FrameInfo{EOHCRC: eohCRC, FP: fp}
}
