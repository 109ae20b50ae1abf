package fig

import "github.com/magicbadger/dabmux/internal/model"

// AnnouncementSwitching encodes FIG 0/19: the active cluster's ASw
// flags and target subchannel. Dormant (class C, priority NORMAL)
// while no cluster is active; promoted to class A/priority HIGH for as
// long as any cluster is active (spec §4.2/§8 scenario 4).
type AnnouncementSwitching struct {
	idx    int
	active bool
}

func NewAnnouncementSwitching() *AnnouncementSwitching { return &AnnouncementSwitching{} }

func (a *AnnouncementSwitching) FIGType() byte  { return 0 }
func (a *AnnouncementSwitching) Extension() int { return 19 }

func (a *AnnouncementSwitching) Class() RepetitionClass {
	if a.active {
		return ClassA
	}
	return ClassC
}

func (a *AnnouncementSwitching) Priority() Priority {
	if a.active {
		return PriorityHigh
	}
	return PriorityNormal
}

// Observe updates the dormant/active state from the latest snapshot;
// the carousel calls this once per CIF before scheduling.
func (a *AnnouncementSwitching) Observe(snap *model.Snapshot) {
	a.active = len(snap.ActiveAnnouncements) > 0
}

func (a *AnnouncementSwitching) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	if len(snap.ActiveAnnouncements) == 0 {
		return 0, true
	}
	total := 0
	for a.idx < len(snap.ActiveAnnouncements) {
		act := snap.ActiveAnnouncements[a.idx]
		sc, _ := subchannelByUID(act.SubchannelUID, snap)
		d := []byte{
			act.ClusterID,
			byte(act.Types >> 8), byte(act.Types),
			byte(sc.ID & 0x3F),
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
