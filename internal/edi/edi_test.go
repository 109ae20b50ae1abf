package edi

import (
	"bytes"
	"testing"

	"github.com/magicbadger/dabmux/internal/crcfec"
)

func TestAFPacketCRC32(t *testing.T) {
	payload := []byte("hello dab world")
	pkt := BuildAF(1, payload)
	if !VerifyAF(pkt) {
		t.Fatalf("AF packet failed self-verification")
	}
	pkt[5] ^= 0xFF // flip a length byte
	if VerifyAF(pkt) {
		t.Fatalf("corrupted AF packet should fail verification")
	}
}

func TestPFTFragmentCountAndIndicesContiguous(t *testing.T) {
	af := make([]byte, 5600)
	for i := range af {
		af[i] = byte(i)
	}
	frags, err := BuildFragments(42, af, 2, 1400)
	if err != nil {
		t.Fatalf("BuildFragments: %v", err)
	}
	if len(frags) != 18 {
		t.Fatalf("expected 18 fragments, got %d", len(frags))
	}
	seen := make(map[int]bool)
	for _, f := range frags {
		if f.Pseq != 42 {
			t.Fatalf("Pseq mismatch: got %d, want 42", f.Pseq)
		}
		if f.Fcount != 18 {
			t.Fatalf("Fcount mismatch: got %d, want 18", f.Fcount)
		}
		if len(f.Payload) != 467 {
			t.Fatalf("chunk length = %d, want 467", len(f.Payload))
		}
		seen[f.Findex] = true
	}
	for i := 0; i < 18; i++ {
		if !seen[i] {
			t.Fatalf("missing Findex %d", i)
		}
	}
}

func TestPFTRoundTripWithLosses(t *testing.T) {
	af := make([]byte, 5600)
	for i := range af {
		af[i] = byte(i * 7)
	}
	frags, err := BuildFragments(1, af, 2, 1400)
	if err != nil {
		t.Fatalf("BuildFragments: %v", err)
	}

	// Drop exactly RSz (6) fragments.
	dropped := map[int]bool{0: true, 3: true, 7: true, 11: true, 14: true, 17: true}
	var surviving []Fragment
	for _, f := range frags {
		if !dropped[f.Findex] {
			surviving = append(surviving, f)
		}
	}

	out, err := Reassemble(surviving, len(af))
	if err != nil {
		t.Fatalf("Reassemble: %v", err)
	}
	if !bytes.Equal(out, af) {
		t.Fatalf("reassembled AF packet does not match original")
	}
}

func TestFragmentHeaderCRC(t *testing.T) {
	f := Fragment{Pseq: 7, Findex: 0, Fcount: 1, Payload: []byte{1, 2, 3, 4}}
	enc := f.Encode()
	if len(enc) < 16 {
		t.Fatalf("encoded fragment too short: %d bytes", len(enc))
	}
	if enc[0] != 'P' || enc[1] != 'F' {
		t.Fatalf("missing PF sync bytes")
	}
	// 12-byte header (no FEC) + 4 payload bytes + 2-byte CRC; the CRC
	// covers the header only.
	if len(enc) != 18 {
		t.Fatalf("encoded fragment length = %d, want 18", len(enc))
	}
	got := uint16(enc[16])<<8 | uint16(enc[17])
	if want := crcfec.CRC16CCITTInverted(enc[:12]); got != want {
		t.Fatalf("header CRC = %#04x, want %#04x", got, want)
	}
}
