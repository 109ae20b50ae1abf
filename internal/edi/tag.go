// Package edi implements the EDI (Ensemble Data Interface) transport
// encoding: TAG items, AF packets, and PFT fragmentation with optional
// Reed-Solomon parity (ETSI TS 102 693).
package edi

import "encoding/binary"

// Tag builds one TAG item: 4-byte ASCII name, 32-bit big-endian
// length-in-bits of value, then the value padded to a byte boundary
// (spec §4.5.1).
func Tag(name string, value []byte) []byte {
	if len(name) != 4 {
		panic("edi: TAG name must be exactly 4 bytes")
	}
	out := make([]byte, 4+4+len(value))
	copy(out, name)
	binary.BigEndian.PutUint32(out[4:], uint32(len(value))*8)
	copy(out[8:], value)
	return out
}

// PtrTag builds the "*ptr" protocol-identification TAG item: "DETI"
// plus 16-bit major/minor version.
func PtrTag(major, minor uint16) []byte {
	v := make([]byte, 4)
	binary.BigEndian.PutUint16(v, major)
	binary.BigEndian.PutUint16(v[2:], minor)
	return Tag("*ptr", append([]byte("DETI"), v...))
}

// DETIFlags describes the flag word carried at the start of a deti TAG
// item's value (spec §4.5.1).
type DETIFlags struct {
	FCTValid    bool
	ATSTPresent bool
	FICF        bool
	MID         byte // 2 bits
	FP          byte // 3 bits
}

func (f DETIFlags) encode() byte {
	var b byte
	if f.FCTValid {
		b |= 1 << 7
	}
	if f.ATSTPresent {
		b |= 1 << 5
	}
	if f.FICF {
		b |= 1 << 4
	}
	b |= (f.MID & 0x3) << 2
	b |= f.FP & 0x7
	return b
}

// DetiTag builds the "deti" TAG item: flag byte, EOH CRC, then the raw
// FIC bytes for this CIF.
func DetiTag(flags DETIFlags, eohCRC uint16, fic []byte) []byte {
	v := make([]byte, 1+2+len(fic))
	v[0] = flags.encode()
	binary.BigEndian.PutUint16(v[1:], eohCRC)
	copy(v[3:], fic)
	return Tag("deti", v)
}

// EstTag builds one "estN" TAG item (N = SCID): the subchannel header
// (SAD, TPL, STL) followed by its MSC payload.
func EstTag(scid byte, sad int, tpl byte, stl int, payload []byte) []byte {
	v := make([]byte, 4+len(payload))
	v[0] = byte(sad>>8)&0x3 | byte(scid&0x3F)<<2
	v[1] = byte(sad)
	v[2] = tpl<<2 | byte(stl>>8)&0x3
	v[3] = byte(stl)
	copy(v[4:], payload)
	name := [4]byte{'e', 's', 't', scidChar(scid)}
	return Tag(string(name[:]), v)
}

// scidCharTable maps a 6-bit SCID onto a single ASCII character for
// the "estN" TAG item name, covering all 64 possible subchannel ids.
const scidCharTable = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func scidChar(scid byte) byte {
	return scidCharTable[scid&0x3F]
}

// TistTag builds the "tist" TAG item: flag byte, 32-bit seconds since
// 2000-01-01 UTC, 24-bit fractional ticks of 1/16384 s (spec §4.5.1).
func TistTag(fpValid bool, secondsSince2000 uint32, fractionalTicks uint32) []byte {
	v := make([]byte, 1+4+3)
	if fpValid {
		v[0] = 1 << 7
	}
	binary.BigEndian.PutUint32(v[1:], secondsSince2000)
	v[5] = byte(fractionalTicks >> 16)
	v[6] = byte(fractionalTicks >> 8)
	v[7] = byte(fractionalTicks)
	return Tag("tist", v)
}
