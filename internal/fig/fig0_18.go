package fig

import "github.com/magicbadger/dabmux/internal/model"

// AnnouncementSupport encodes FIG 0/18: per-service announcement
// support flags and cluster id, iterated across services that declare
// any. Class B.
type AnnouncementSupport struct {
	idx int
}

func NewAnnouncementSupport() *AnnouncementSupport { return &AnnouncementSupport{} }

func (a *AnnouncementSupport) FIGType() byte          { return 0 }
func (a *AnnouncementSupport) Extension() int         { return 18 }
func (a *AnnouncementSupport) Class() RepetitionClass { return ClassB }
func (a *AnnouncementSupport) Priority() Priority     { return PriorityNormal }

func servicesWithAnnouncements(snap *model.Snapshot) []model.Service {
	var out []model.Service
	for _, svc := range snap.Services {
		if len(svc.Announcements) > 0 {
			out = append(out, svc)
		}
	}
	return out
}

func (a *AnnouncementSupport) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	svcs := servicesWithAnnouncements(snap)
	if len(svcs) == 0 {
		return 0, true
	}
	total := 0
	for a.idx < len(svcs) {
		svc := svcs[a.idx]
		ann := svc.Announcements[0]
		d := []byte{
			byte(svc.ID >> 8), byte(svc.ID),
			byte(ann.SupportFlags >> 8), byte(ann.SupportFlags),
			ann.ClusterID,
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
		a.idx++
	}
	a.idx = 0
	return total, true
}
