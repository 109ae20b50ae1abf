package crcfec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCRC16CCITTKnownVector(t *testing.T) {
	// "123456789" over CRC-16/XMODEM-family polynomial 0x1021, init 0xFFFF,
	// no final XOR, is a widely published test vector: 0x29B1.
	got := CRC16CCITT([]byte("123456789"))
	require.Equal(t, uint16(0x29B1), got)
}

func TestCRC16CCITTInvertedRoundTrip(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	crc := CRC16CCITTInverted(data)
	// The FIB/EOH contract: appending the inverted CRC and re-inverting
	// before comparison must recover the original, non-inverted value.
	require.Equal(t, CRC16CCITT(data), InvertCRC16(crc))
}

func TestCRC8KnownProperties(t *testing.T) {
	// CRC-8/0x1D with init 0xFF is deterministic, and an empty input
	// leaves the initial value unmodified.
	got := CRC8([]byte{0x00, 0x00})
	want := CRC8([]byte{0x00, 0x00})
	require.Equal(t, want, got, "CRC8 not deterministic")
	require.Equal(t, byte(0xFF), CRC8([]byte{}), "initial value unmodified")
}

func TestCRC32AFPacketVector(t *testing.T) {
	data := []byte("EDI-AF-TEST-PAYLOAD")
	crc := CRC32(data)
	// Re-deriving the same CRC over the same bytes must be stable, and
	// flipping any bit must change it (the property §8 cares about).
	require.Equal(t, crc, CRC32(data), "CRC32 not deterministic")

	corrupted := append([]byte{}, data...)
	corrupted[0] ^= 0x01
	require.NotEqual(t, crc, CRC32(corrupted), "CRC32 did not change after single-bit corruption")
}
