package edi

import (
	"encoding/binary"

	"github.com/magicbadger/dabmux/internal/crcfec"
)

// FECPolicy maps the configured pft_fec level (0-5) onto a concrete
// (k, m) chunk-count policy (spec §4.5.3: "m is configured by FEC
// level; 0-5 map to concrete (k,m) policies").
type FECPolicy struct {
	K, M int
}

// fecPolicies is indexed by pft_fec level. Level 0 disables FEC
// entirely (m=0); levels 1-5 trade redundancy for overhead.
var fecPolicies = map[int]FECPolicy{
	0: {K: 1, M: 0},
	1: {K: 12, M: 3},
	2: {K: 12, M: 6},
	3: {K: 8, M: 6},
	4: {K: 6, M: 6},
	5: {K: 4, M: 6},
}

// ChunkSize chooses k data-chunk count and the resulting chunk length
// such that ceil(afLen/k) + header fits within fragmentSize (spec
// §4.5.3 chunk-size selection), starting from the configured FEC
// level's k.
func ChunkSize(afLen int, level int, fragmentSize int) (k int, chunkLen int) {
	policy, ok := fecPolicies[level]
	if !ok {
		policy = fecPolicies[0]
	}
	k = policy.K
	const headerOverhead = 14
	for {
		chunkLen = ceilDiv(afLen, k)
		if chunkLen+headerOverhead <= fragmentSize || k >= afLen {
			break
		}
		k++
	}
	return k, chunkLen
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// Fragment is one PFT packet: header fields plus its payload chunk.
type Fragment struct {
	Pseq    uint16
	Findex  int
	Fcount  int
	FEC     bool
	RSk     byte
	RSz     byte // m, parity chunk count
	Payload []byte
}

// Encode serializes one PFT fragment: SYNC "PF" | Pseq | Findex(3) |
// Fcount(3) | FEC | Plen(14, packed with addr/plen bits) | [RSk|RSz
// when FEC] | payload | header CRC-16 (spec §4.5.3). This encoder
// never sets the transport-window address bit.
func (f Fragment) Encode() []byte {
	headerLen := 2 + 2 + 3 + 3 + 1 + 2
	if f.FEC {
		headerLen += 2
	}
	out := make([]byte, headerLen+len(f.Payload)+2)
	out[0] = 'P'
	out[1] = 'F'
	binary.BigEndian.PutUint16(out[2:], f.Pseq)
	put24(out[4:], f.Findex)
	put24(out[7:], f.Fcount)

	off := 10
	var fecByte byte
	if f.FEC {
		fecByte = 1 << 7
	}
	out[off] = fecByte
	off++

	plen := uint16(len(f.Payload)) & 0x3FFF
	binary.BigEndian.PutUint16(out[off:], plen)
	off += 2

	if f.FEC {
		out[off] = f.RSk
		out[off+1] = f.RSz
		off += 2
	}

	copy(out[off:], f.Payload)
	off += len(f.Payload)

	crc := crcfec.CRC16CCITTInverted(out[:headerLen])
	binary.BigEndian.PutUint16(out[off:], crc)
	return out
}

func put24(b []byte, v int) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

// BuildFragments splits an AF packet into k data chunks (zero-padded
// to chunkLen) and, if m>0, produces m Reed-Solomon parity chunks via
// rs, emitting n=k+m PFT fragments sharing one Pseq (spec §4.5.3).
func BuildFragments(pseq uint16, afPacket []byte, level int, fragmentSize int) ([]Fragment, error) {
	policy, ok := fecPolicies[level]
	if !ok {
		policy = fecPolicies[0]
	}
	k, chunkLen := ChunkSize(len(afPacket), level, fragmentSize)
	m := policy.M

	chunks := make([][]byte, k)
	for i := 0; i < k; i++ {
		chunk := make([]byte, chunkLen)
		start := i * chunkLen
		end := start + chunkLen
		if start < len(afPacket) {
			if end > len(afPacket) {
				end = len(afPacket)
			}
			copy(chunk, afPacket[start:end])
		}
		chunks[i] = chunk
	}

	var parity [][]byte
	if m > 0 {
		enc, err := crcfec.NewRSEncoder(k, m)
		if err != nil {
			return nil, err
		}
		parity, err = enc.Encode(chunks)
		if err != nil {
			return nil, err
		}
	}

	n := k + m
	frags := make([]Fragment, 0, n)
	for i := 0; i < k; i++ {
		frags = append(frags, Fragment{
			Pseq: pseq, Findex: i, Fcount: n, FEC: m > 0,
			RSk: byte(k), RSz: byte(m), Payload: chunks[i],
		})
	}
	for i := 0; i < m; i++ {
		frags = append(frags, Fragment{
			Pseq: pseq, Findex: k + i, Fcount: n, FEC: true,
			RSk: byte(k), RSz: byte(m), Payload: parity[i],
		})
	}
	return frags, nil
}

// Reassemble reconstructs an AF packet from a set of fragments sharing
// one Pseq, given at least k of the n fragments (possibly using RS
// reconstruction to recover missing chunks), noted for test-suite
// symmetry per spec §4.5.3.
func Reassemble(frags []Fragment, afLen int) ([]byte, error) {
	if len(frags) == 0 {
		return nil, nil
	}
	fcount := frags[0].Fcount
	k := int(frags[0].RSk)
	m := int(frags[0].RSz)
	if k == 0 {
		k = fcount
	}
	chunkLen := 0
	for _, f := range frags {
		if len(f.Payload) > 0 {
			chunkLen = len(f.Payload)
			break
		}
	}

	shards := make([][]byte, k+m)
	for _, f := range frags {
		if f.Findex < len(shards) {
			shards[f.Findex] = f.Payload
		}
	}

	if m > 0 {
		enc, err := crcfec.NewRSEncoder(k, m)
		if err != nil {
			return nil, err
		}
		if err := enc.Reconstruct(shards); err != nil {
			return nil, err
		}
	}

	out := make([]byte, 0, k*chunkLen)
	for i := 0; i < k; i++ {
		out = append(out, shards[i]...)
	}
	if afLen > 0 && afLen < len(out) {
		out = out[:afLen]
	}
	return out, nil
}
