package fig

import "github.com/magicbadger/dabmux/internal/model"

// CAService encodes FIG 6/1: the SId -> CAId mapping for services that
// declare a conditional-access system, iterated across frames. PD
// selects 16- vs 32-bit SIds per service. Class C.
type CAService struct {
	idx int
}

func NewCAService() *CAService { return &CAService{} }

func (c *CAService) FIGType() byte          { return 6 }
func (c *CAService) Extension() int         { return 1 }
func (c *CAService) Class() RepetitionClass { return ClassC }
func (c *CAService) Priority() Priority     { return PriorityNormal }

func caServices(snap *model.Snapshot) []model.Service {
	var out []model.Service
	for _, svc := range snap.Services {
		if svc.CAID != 0 {
			out = append(out, svc)
		}
	}
	return out
}

func (c *CAService) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	svcs := caServices(snap)
	if len(svcs) == 0 {
		return 0, true
	}
	total := 0
	for c.idx < len(svcs) {
		svc := svcs[c.idx]
		pd := svc.IDBits == model.ServiceID32
		var d []byte
		if pd {
			d = []byte{byte(svc.ID >> 24), byte(svc.ID >> 16), byte(svc.ID >> 8), byte(svc.ID), byte(svc.CAID >> 8), byte(svc.CAID)}
		} else {
			d = []byte{byte(svc.ID >> 8), byte(svc.ID), byte(svc.CAID >> 8), byte(svc.CAID)}
		}
		rec := make([]byte, 1+1+len(d))
		rec[0] = header(6, len(d)+1)
		rec[1] = subHeader(false, false, pd, 1)
		copy(rec[2:], d)
		n, fit := writeAtomic(buf[total:], max-total, rec)
		if !fit {
			if total == 0 {
				return 0, false
			}
			return total, false
		}
		total += n
		c.idx++
	}
	c.idx = 0
	return total, true
}
