package fic

import (
	"testing"

	"github.com/magicbadger/dabmux/internal/crcfec"
	"github.com/magicbadger/dabmux/internal/fig"
	"github.com/magicbadger/dabmux/internal/model"
)

func TestEmptyCarouselProducesNullFillerFIBs(t *testing.T) {
	c := NewCarousel()
	e := model.NewEnsemble(0xCE15, 0xE1, model.ModeI)
	snap := e.Snapshot()

	out := c.FillCIF(&snap, 3)
	if len(out) != 3*FIBSize {
		t.Fatalf("expected %d bytes, got %d", 3*FIBSize, len(out))
	}
	for i := 0; i < 3; i++ {
		checkFIBShape(t, out[i*FIBSize:(i+1)*FIBSize])
	}
}

func TestCarouselWithEnsembleFIGProducesValidFIBs(t *testing.T) {
	c := NewCarousel(fig.NewEnsemble(), fig.NewConfigInfo())
	e := model.NewEnsemble(0xCE15, 0xE1, model.ModeI)
	snap := e.Snapshot()

	for cif := 0; cif < 4; cif++ {
		out := c.FillCIF(&snap, 3)
		if len(out) != 3*FIBSize {
			t.Fatalf("cif %d: expected %d bytes, got %d", cif, 3*FIBSize, len(out))
		}
		for i := 0; i < 3; i++ {
			checkFIBShape(t, out[i*FIBSize:(i+1)*FIBSize])
		}
	}
}

func checkFIBShape(t *testing.T, fib []byte) {
	t.Helper()
	if len(fib) != FIBSize {
		t.Fatalf("FIB length = %d, want %d", len(fib), FIBSize)
	}
	want := crcfec.CRC16CCITTInverted(fib[:FIBDataSize])
	got := uint16(fib[FIBDataSize])<<8 | uint16(fib[FIBDataSize+1])
	if got != want {
		t.Fatalf("FIB CRC mismatch: got %#04x, want %#04x", got, want)
	}
}
