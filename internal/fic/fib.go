// Package fic implements the Fast Information Channel carousel: the
// scheduler that drives FIG encoders to fill Fast Information Blocks
// (ETSI EN 300 401 §5.2.1) for each CIF.
package fic

import "github.com/magicbadger/dabmux/internal/crcfec"

// FIBSize is the fixed wire size of one Fast Information Block: 30
// data bytes plus a 2-byte inverted CRC-16.
const FIBSize = 32

// FIBDataSize is the usable payload budget inside one FIB.
const FIBDataSize = 30

// nullFIG00 is the "no ensemble change" filler FIG 0/0 record emitted
// into an FIB in which no encoder wrote anything (spec §4.3:
// "unused FIBs are emitted as a single null FIG 0/0 filler followed by
// 0xFF padding — never as raw zeros").
var nullFIG00 = []byte{0x00, 0x00, 0x00, 0x00, 0x00}

// packFIB finishes one FIB: pads data to FIBDataSize with 0xFF and
// appends the inverted CRC-16-CCITT.
func packFIB(data []byte) [FIBSize]byte {
	var fib [FIBSize]byte
	n := copy(fib[:FIBDataSize], data)
	for i := n; i < FIBDataSize; i++ {
		fib[i] = 0xFF
	}
	crc := crcfec.CRC16CCITTInverted(fib[:FIBDataSize])
	fib[FIBDataSize] = byte(crc >> 8)
	fib[FIBDataSize+1] = byte(crc)
	return fib
}

// emptyFIB produces a filler FIB: a null FIG 0/0 record followed by
// 0xFF padding, per spec §4.3.
func emptyFIB() [FIBSize]byte {
	return packFIB(nullFIG00)
}
