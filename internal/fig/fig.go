// Package fig implements the Fast Information Group encoders carried
// inside the FIC (ETSI EN 300 401 §5.2). Every encoder shares the same
// fill contract so the carousel in internal/fic can drive them
// uniformly regardless of FIG type.
package fig

import "github.com/magicbadger/dabmux/internal/model"

// RepetitionClass is the carousel period tier a FIG belongs to,
// counted in 24 ms CIF intervals (spec §4.3).
type RepetitionClass int

const (
	ClassA RepetitionClass = 4    // 100 ms
	ClassB RepetitionClass = 40   // 1 s
	ClassC RepetitionClass = 2400 // 1 min
	ClassD RepetitionClass = 0    // on demand, no periodic emission
)

// Priority is the carousel scheduling tier; HIGH entries are always
// served before NORMAL ones within a FIB budget.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityHigh
)

// Encoder is implemented by every concrete FIG. fill must write at
// most max bytes to buf and report how many bytes it wrote; complete
// reports whether this call finished one full cycle of the FIG's
// payload (after which the carousel resets its repetition timer). An
// encoder that cannot fit its next atomic record writes zero bytes and
// reports complete=false so the carousel retries it next frame.
type Encoder interface {
	Fill(buf []byte, max int, snap *model.Snapshot) (bytesWritten int, complete bool)
	FIGType() byte
	Extension() int // -1 when the FIG carries no extension byte
	Class() RepetitionClass
	Priority() Priority
}

// DynamicClassEncoder is implemented by encoders whose repetition
// class/priority change at runtime (FIG 0/19: dormant class C while no
// announcement is active, promoted to class A/HIGH while one is).
// The carousel calls Observe once per CIF, before consulting Class()
// or Priority(), so the encoder can react to the latest snapshot.
type DynamicClassEncoder interface {
	Encoder
	Observe(snap *model.Snapshot)
}

// header packs a FIG 0/x/6/x header byte: 3-bit type, 5-bit
// length-of-data-excluding-this-byte.
func header(figType byte, dataLen int) byte {
	return (figType&0x7)<<5 | byte(dataLen&0x1F)
}

// subHeader packs the type-0 second byte: C/N flag, OE flag, PD flag,
// 5-bit extension.
func subHeader(cn, oe, pd bool, ext int) byte {
	var b byte
	if cn {
		b |= 1 << 7
	}
	if oe {
		b |= 1 << 6
	}
	if pd {
		b |= 1 << 5
	}
	b |= byte(ext & 0x1F)
	return b
}

// writeAtomic appends data to buf if it fits within max, returning the
// new write count and whether it fit. Every encoder below uses this to
// honour the "never split a record across FIBs" rule (spec §7).
func writeAtomic(buf []byte, max int, data []byte) (n int, fit bool) {
	if len(data) > max {
		return 0, false
	}
	copy(buf, data)
	return len(data), true
}
