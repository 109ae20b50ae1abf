package fig

import "github.com/magicbadger/dabmux/internal/model"

// ServiceComponentGlobal encodes FIG 0/8: the global service-component
// definition binding each component to its service and subchannel.
// Each record carries the SId followed by one byte holding the 6-bit
// SubChId; SCIdS and the MscFic flag are not encoded. Class B.
type ServiceComponentGlobal struct {
	idx int
}

func NewServiceComponentGlobal() *ServiceComponentGlobal {
	return &ServiceComponentGlobal{}
}

func (s *ServiceComponentGlobal) FIGType() byte          { return 0 }
func (s *ServiceComponentGlobal) Extension() int         { return 8 }
func (s *ServiceComponentGlobal) Class() RepetitionClass { return ClassB }
func (s *ServiceComponentGlobal) Priority() Priority     { return PriorityNormal }

func (s *ServiceComponentGlobal) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	if len(snap.Components) == 0 {
		return 0, true
	}
	total := 0
	for s.idx < len(snap.Components) {
		comp := snap.Components[s.idx]
		var svcID uint32
		var pd bool
		for _, svc := range snap.Services {
			if svc.UID == comp.ServiceUID {
				svcID = svc.ID
				pd = svc.IDBits == model.ServiceID32
				break
			}
		}
		sc, _ := subchannelByUID(comp.SubchannelUID, snap)
		var d []byte
		if pd {
			d = []byte{byte(svcID >> 24), byte(svcID >> 16), byte(svcID >> 8), byte(svcID)}
		} else {
			d = []byte{byte(svcID >> 8), byte(svcID)}
		}
		d = append(d, byte(sc.ID&0x3F))

		rec := make([]byte, 1+1+len(d))
		rec[0] = header(0, len(d)+1)
		rec[1] = subHeader(false, false, pd, 8)
		copy(rec[2:], d)
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
