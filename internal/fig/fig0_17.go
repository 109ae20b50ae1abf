package fig

import "github.com/magicbadger/dabmux/internal/model"

// ProgrammeType encodes FIG 0/17: per-service programme type (PTy),
// iterated across services. No language is written: the byte between
// the SId and the PTy is always 0.
type ProgrammeType struct {
	idx int
}

func NewProgrammeType() *ProgrammeType { return &ProgrammeType{} }

func (p *ProgrammeType) FIGType() byte          { return 0 }
func (p *ProgrammeType) Extension() int         { return 17 }
func (p *ProgrammeType) Class() RepetitionClass { return ClassB }
func (p *ProgrammeType) Priority() Priority     { return PriorityNormal }

func (p *ProgrammeType) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	if len(snap.Services) == 0 {
		return 0, true
	}
	total := 0
	for p.idx < len(snap.Services) {
		svc := snap.Services[p.idx]
		d := []byte{byte(svc.ID >> 8), byte(svc.ID), 0, byte(svc.ProgrammeType & 0x1F)}
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
		p.idx++
	}
	p.idx = 0
	return total, true
}
