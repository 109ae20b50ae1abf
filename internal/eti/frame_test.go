package eti

import (
	"testing"

	"github.com/magicbadger/dabmux/internal/crcfec"
	"github.com/magicbadger/dabmux/internal/model"
)

func TestEmptyFrameShape(t *testing.T) {
	a := NewAssembler(model.ModeI, false)
	fic := make([]byte, 384) // 12 FIBs x 32 bytes, Mode I per-frame FIC size
	frame, _ := a.AssembleFrame(fic, nil, 0)

	if len(frame) != FrameSize {
		t.Fatalf("frame length = %d, want %d", len(frame), FrameSize)
	}
	tail := frame[len(frame)-1]
	if tail != PaddingByte {
		t.Fatalf("expected padding tail to end in 0x55, got %#02x", tail)
	}
}

func TestFSYNCAlternates(t *testing.T) {
	a := NewAssembler(model.ModeI, false)
	fic := make([]byte, 384)

	f0, _ := a.AssembleFrame(fic, nil, 0)
	f1, _ := a.AssembleFrame(fic, nil, 0)

	fsync0 := uint32(f0[1])<<16 | uint32(f0[2])<<8 | uint32(f0[3])
	fsync1 := uint32(f1[1])<<16 | uint32(f1[2])<<8 | uint32(f1[3])
	if fsync0 != fsyncEven {
		t.Fatalf("frame 0 FSYNC = %#06x, want %#06x", fsync0, fsyncEven)
	}
	if fsync1 != fsyncOdd {
		t.Fatalf("frame 1 FSYNC = %#06x, want %#06x", fsync1, fsyncOdd)
	}
}

func TestFrameLengthFieldFormula(t *testing.T) {
	a := NewAssembler(model.ModeI, false)
	fic := make([]byte, 384)
	subs := []SubchannelPayload{
		{SCID: 0, SAD: 0, TPL: 0x68, STL: 35, Payload: make([]byte, 280)},
	}
	frame, _ := a.AssembleFrame(fic, subs, 0)

	fl := uint16(frame[6]&0x7)<<8 | uint16(frame[7])
	stcLen := 4 * len(subs)
	eohLen := 4
	ficLen := len(fic)
	mscLen := 280
	eofLen := 4
	want := (stcLen + eohLen + ficLen + mscLen + eofLen) / 4
	if int(fl) != want {
		t.Fatalf("FL = %d, want %d", fl, want)
	}
}

func TestEOHAndEOFCRC(t *testing.T) {
	a := NewAssembler(model.ModeI, false)
	fic := make([]byte, 384)
	subs := []SubchannelPayload{
		{SCID: 0, SAD: 0, TPL: 0x68, STL: 35, Payload: make([]byte, 280)},
	}
	frame, info := a.AssembleFrame(fic, subs, 0)

	stcLen := 4 * len(subs)
	eohStart := 8 + stcLen
	wantEOH := crcfec.CRC16CCITTInverted(frame[4:eohStart])
	gotEOH := uint16(frame[eohStart+2])<<8 | uint16(frame[eohStart+3])
	if gotEOH != wantEOH {
		t.Fatalf("EOH CRC = %#04x, want %#04x", gotEOH, wantEOH)
	}
	if info.EOHCRC != wantEOH {
		t.Fatalf("FrameInfo.EOHCRC = %#04x, want %#04x", info.EOHCRC, wantEOH)
	}

	mscStart := eohStart + 4 + len(fic)
	mscEnd := mscStart + 280
	wantEOF := crcfec.CRC16CCITTInverted(frame[mscStart:mscEnd])
	gotEOF := uint16(frame[mscEnd])<<8 | uint16(frame[mscEnd+1])
	if gotEOF != wantEOF {
		t.Fatalf("EOF CRC = %#04x, want %#04x", gotEOF, wantEOF)
	}
}
