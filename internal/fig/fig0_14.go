package fig

import "github.com/magicbadger/dabmux/internal/model"

// FECSubchannelOrg encodes FIG 0/14: the RS(204,188) FEC scheme
// indicator for subchannels that declare one, iterated across them.
// Class B.
type FECSubchannelOrg struct {
	idx int
}

func NewFECSubchannelOrg() *FECSubchannelOrg { return &FECSubchannelOrg{} }

func (f *FECSubchannelOrg) FIGType() byte          { return 0 }
func (f *FECSubchannelOrg) Extension() int         { return 14 }
func (f *FECSubchannelOrg) Class() RepetitionClass { return ClassB }
func (f *FECSubchannelOrg) Priority() Priority     { return PriorityNormal }

func fecSubchannels(snap *model.Snapshot) []model.Subchannel {
	var out []model.Subchannel
	for _, sc := range snap.Subchannels {
		if sc.FEC != model.FECNone {
			out = append(out, sc)
		}
	}
	return out
}

func (f *FECSubchannelOrg) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	scs := fecSubchannels(snap)
	if len(scs) == 0 {
		return 0, true
	}
	total := 0
	for f.idx < len(scs) {
		sc := scs[f.idx]
		var fecScheme byte
		if sc.FEC == model.FECRS204188 {
			fecScheme = 1
		}
		d := []byte{byte(sc.ID&0x3F) << 2, fecScheme}
		rec := make([]byte, 1+len(d))
		rec[0] = header(0, len(d))
		copy(rec[1:], d)
		n, fit := writeAtomic(buf[total:], max-total, rec)
		if !fit {
			if total == 0 {
				return 0, false
			}
			return total, false
		}
		total += n
		f.idx++
	}
	f.idx = 0
	return total, true
}
