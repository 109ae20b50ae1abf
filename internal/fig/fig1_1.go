package fig

import "github.com/magicbadger/dabmux/internal/model"

// ServiceLabel encodes FIG 1/1: per-service label + short-label mask,
// iterated across services. Class B.
type ServiceLabel struct {
	idx int
}

func NewServiceLabel() *ServiceLabel { return &ServiceLabel{} }

func (s *ServiceLabel) FIGType() byte          { return 1 }
func (s *ServiceLabel) Extension() int         { return 1 }
func (s *ServiceLabel) Class() RepetitionClass { return ClassB }
func (s *ServiceLabel) Priority() Priority     { return PriorityNormal }

func (s *ServiceLabel) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	if len(snap.Services) == 0 {
		return 0, true
	}
	total := 0
	for s.idx < len(snap.Services) {
		svc := snap.Services[s.idx]
		d := make([]byte, 2+model.LabelMaxLen+2)
		d[0] = byte(svc.ID >> 8)
		d[1] = byte(svc.ID)
		padded := svc.Label.PaddedText()
		copy(d[2:], model.EBULatinEncode(string(padded[:])))
		mask := svc.Label.ShortMask
		if mask == 0 {
			mask = model.DefaultShortMask(svc.Label.Text)
		}
		d[len(d)-2] = byte(mask >> 8)
		d[len(d)-1] = byte(mask)

		rec := make([]byte, 1+len(d))
		rec[0] = header(1, len(d))
		copy(rec[1:], d)
		n, fit := writeAtomic(buf[total:], max-total, rec)
		if !fit {
			if total == 0 {
				return 0, false
			}
			return total, false
		}
		total += n
		s.idx++
	}
	s.idx = 0
	return total, true
}
