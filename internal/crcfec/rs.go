package crcfec

import (
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// RSEncoder wraps klauspost/reedsolomon to expose the single operation
// the EDI transport layer (ETSI TS 102 693 PFT) needs: systematic,
// byte-interleaved Reed-Solomon over GF(2^8) with the DVB-conforming
// field polynomial 0x11D. Given k equal-length data chunks, it produces
// m parity chunks of the same length by treating the i-th byte across
// all k chunks as one RS(k+m, k) codeword.
//
// No example repo in the retrieval pack implements Reed-Solomon; this
// is the standard ecosystem library for exactly this construction.
type RSEncoder struct {
	k, m int
	enc  reedsolomon.Encoder
}

// NewRSEncoder builds an encoder for k data shards and m parity shards.
func NewRSEncoder(k, m int) (*RSEncoder, error) {
	if k <= 0 || m < 0 {
		return nil, fmt.Errorf("crcfec: invalid RS parameters k=%d m=%d", k, m)
	}
	if m == 0 {
		return &RSEncoder{k: k, m: m}, nil
	}
	enc, err := reedsolomon.New(k, m)
	if err != nil {
		return nil, fmt.Errorf("crcfec: building RS(%d,%d) encoder: %w", k+m, k, err)
	}
	return &RSEncoder{k: k, m: m, enc: enc}, nil
}

// Encode computes m parity chunks of length L from k data chunks, each
// required to be exactly L bytes (callers must zero-pad short chunks
// before calling, per the PFT chunking rule in §4.5.3).
func (r *RSEncoder) Encode(dataChunks [][]byte) ([][]byte, error) {
	if len(dataChunks) != r.k {
		return nil, fmt.Errorf("crcfec: expected %d data chunks, got %d", r.k, len(dataChunks))
	}
	if r.m == 0 {
		return nil, nil
	}
	l := len(dataChunks[0])
	for i, c := range dataChunks {
		if len(c) != l {
			return nil, fmt.Errorf("crcfec: chunk %d has length %d, want %d", i, len(c), l)
		}
	}

	shards := make([][]byte, r.k+r.m)
	for i, c := range dataChunks {
		buf := make([]byte, l)
		copy(buf, c)
		shards[i] = buf
	}
	for i := r.k; i < r.k+r.m; i++ {
		shards[i] = make([]byte, l)
	}

	if err := r.enc.Encode(shards); err != nil {
		return nil, fmt.Errorf("crcfec: RS encode: %w", err)
	}
	return shards[r.k:], nil
}

// Reconstruct is provided for test-suite symmetry (§4.5.3 notes this is
// not required of the encoder, but the round-trip invariant in §8 needs
// a decoder to verify against). shards must be length k+m with missing
// entries set to nil.
func (r *RSEncoder) Reconstruct(shards [][]byte) error {
	if r.m == 0 {
		return nil
	}
	if len(shards) != r.k+r.m {
		return fmt.Errorf("crcfec: expected %d shards, got %d", r.k+r.m, len(shards))
	}
	if err := r.enc.Reconstruct(shards); err != nil {
		return fmt.Errorf("crcfec: RS reconstruct: %w", err)
	}
	return nil
}
