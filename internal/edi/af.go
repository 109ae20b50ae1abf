package edi

import (
	"encoding/binary"

	"github.com/magicbadger/dabmux/internal/crcfec"
)

// AFPacketTypeTag identifies the AF payload kind carried in PT; this
// encoder only ever produces TAG-packet payloads ('T').
const AFPacketTypeTag = 'T'

// BuildAF wraps a TAG packet (the concatenation of this CIF's TAG
// items) in an AF packet: SYNC "AF" | LEN (4 BE) | SEQ (2 BE) | AR |
// PT | payload | CRC-32 (spec §4.5.2). CRC presence is always signalled
// (spec: "implementations MUST set CRC-present").
func BuildAF(seq uint16, payload []byte) []byte {
	const arCRCPresent = 1 << 7
	header := make([]byte, 2+4+2+1+1)
	header[0] = 'A'
	header[1] = 'F'
	binary.BigEndian.PutUint32(header[2:], uint32(len(payload)))
	binary.BigEndian.PutUint16(header[6:], seq)
	header[8] = arCRCPresent
	header[9] = AFPacketTypeTag

	pkt := make([]byte, len(header)+len(payload)+4)
	copy(pkt, header)
	copy(pkt[len(header):], payload)

	crc := crcfec.CRC32(pkt[:len(pkt)-4])
	binary.BigEndian.PutUint32(pkt[len(pkt)-4:], crc)
	return pkt
}

// VerifyAF reports whether an AF packet's trailing CRC-32 matches its
// body, for round-trip test symmetry.
func VerifyAF(pkt []byte) bool {
	if len(pkt) < 14 {
		return false
	}
	want := binary.BigEndian.Uint32(pkt[len(pkt)-4:])
	got := crcfec.CRC32(pkt[:len(pkt)-4])
	return want == got
}
