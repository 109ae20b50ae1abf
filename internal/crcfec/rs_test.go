package crcfec

import (
	"bytes"
	"testing"
)

func TestRSEncoderRoundTripWithLosses(t *testing.T) {
	k, m := 12, 6
	enc, err := NewRSEncoder(k, m)
	if err != nil {
		t.Fatalf("NewRSEncoder: %v", err)
	}

	l := 467
	data := make([][]byte, k)
	for i := range data {
		chunk := make([]byte, l)
		for j := range chunk {
			chunk[j] = byte((i*7 + j*3) % 256)
		}
		data[i] = chunk
	}

	parity, err := enc.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(parity) != m {
		t.Fatalf("got %d parity chunks, want %d", len(parity), m)
	}

	shards := make([][]byte, k+m)
	for i, c := range data {
		shards[i] = append([]byte{}, c...)
	}
	for i, c := range parity {
		shards[k+i] = append([]byte{}, c...)
	}

	// Drop exactly m shards (the maximum this code tolerates).
	dropped := map[int]bool{0: true, 2: true, 5: true, k: true, k + 1: true, k + 4: true}
	if len(dropped) != m {
		t.Fatalf("test setup error: dropped %d, want %d", len(dropped), m)
	}
	reconstructable := make([][]byte, k+m)
	for i := range shards {
		if dropped[i] {
			reconstructable[i] = nil
		} else {
			reconstructable[i] = shards[i]
		}
	}

	if err := enc.Reconstruct(reconstructable); err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}

	for i := 0; i < k; i++ {
		if !bytes.Equal(reconstructable[i], data[i]) {
			t.Errorf("data shard %d did not reconstruct correctly", i)
		}
	}
}

func TestRSEncoderZeroParity(t *testing.T) {
	enc, err := NewRSEncoder(4, 0)
	if err != nil {
		t.Fatalf("NewRSEncoder: %v", err)
	}
	data := [][]byte{{1, 2}, {3, 4}, {5, 6}, {7, 8}}
	parity, err := enc.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if parity != nil {
		t.Errorf("expected no parity chunks when m=0, got %d", len(parity))
	}
}

func TestRSEncoderRejectsMismatchedChunkCount(t *testing.T) {
	enc, err := NewRSEncoder(3, 2)
	if err != nil {
		t.Fatalf("NewRSEncoder: %v", err)
	}
	_, err = enc.Encode([][]byte{{1}, {2}})
	if err == nil {
		t.Errorf("expected error for wrong chunk count")
	}
}
