package fig

import "github.com/magicbadger/dabmux/internal/model"

// ServiceLinking encodes FIG 0/6: the service-linking table (LSN,
// hard/soft flag, ID-list qualifier selecting DAB/RDS/DRM/AMSS),
// iterated across services that declare any links. Class B.
type ServiceLinking struct {
	idx int
}

func NewServiceLinking() *ServiceLinking { return &ServiceLinking{} }

func (s *ServiceLinking) FIGType() byte          { return 0 }
func (s *ServiceLinking) Extension() int         { return 6 }
func (s *ServiceLinking) Class() RepetitionClass { return ClassB }
func (s *ServiceLinking) Priority() Priority     { return PriorityNormal }

func servicesWithLinks(snap *model.Snapshot) []model.Service {
	var out []model.Service
	for _, svc := range snap.Services {
		if len(svc.ServiceLinks) > 0 {
			out = append(out, svc)
		}
	}
	return out
}

func (s *ServiceLinking) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	svcs := servicesWithLinks(snap)
	if len(svcs) == 0 {
		return 0, true
	}
	total := 0
	for s.idx < len(svcs) {
		svc := svcs[s.idx]
		link := svc.ServiceLinks[0]
		hdr2 := byte(link.Qualifier&0x3) << 6
		if link.HardSoft {
			hdr2 |= 1 << 5
		}
		if link.InternationalTable {
			hdr2 |= 1 << 4
		}
		hdr2 |= byte(link.LinkageSetNumber & 0xF)
		d := []byte{
			hdr2,
			byte(link.ID >> 8), byte(link.ID),
		}
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
		s.idx++
	}
	s.idx = 0
	return total, true
}
