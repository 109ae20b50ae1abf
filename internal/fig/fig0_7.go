package fig

import (
	"encoding/binary"

	"github.com/magicbadger/dabmux/internal/crcfec"
	"github.com/magicbadger/dabmux/internal/model"
)

// ConfigInfo encodes FIG 0/7: a 10-bit fingerprint of the ensemble's
// configuration (services/subchannels/components/labels) plus the
// service and subchannel counts. The fingerprint is recomputed from
// the snapshot's Generation counter, which Ensemble bumps on every
// mutating call; this lets the carousel re-emit the same value while
// the configuration is stable and a different value immediately after
// any mutation, per spec §8's FIG 0/7 invariant.
type ConfigInfo struct{}

func NewConfigInfo() *ConfigInfo { return &ConfigInfo{} }

func (c *ConfigInfo) FIGType() byte          { return 0 }
func (c *ConfigInfo) Extension() int         { return 7 }
func (c *ConfigInfo) Class() RepetitionClass { return ClassB }
func (c *ConfigInfo) Priority() Priority     { return PriorityNormal }

// Fingerprint derives the 10-bit configuration counter from the
// ensemble's generation number via CRC-16-CCITT, folded into 10 bits.
func Fingerprint(snap *model.Snapshot) uint16 {
	var gen [8]byte
	binary.BigEndian.PutUint64(gen[:], snap.Generation)
	crc := crcfec.CRC16CCITT(gen[:])
	return crc & 0x03FF
}

func (c *ConfigInfo) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	fp := Fingerprint(snap)
	d := []byte{
		byte(len(snap.Services)),
		byte(fp>>8)&0x3 | byte(len(snap.Subchannels))<<2,
		byte(fp),
	}
	rec := make([]byte, 1+len(d))
	rec[0] = header(0, len(d))
	copy(rec[1:], d)
	n, fit := writeAtomic(buf, max, rec)
	if !fit {
		return 0, false
	}
	return n, true
}
