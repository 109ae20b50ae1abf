package fig

import "github.com/magicbadger/dabmux/internal/model"

// UserApplicationInfo encodes FIG 0/13: the user-application (MOT/EPG
// etc.) declarations attached to packet-mode components, iterated
// across components that carry any. Class B.
type UserApplicationInfo struct {
	idx int
}

func NewUserApplicationInfo() *UserApplicationInfo { return &UserApplicationInfo{} }

func (u *UserApplicationInfo) FIGType() byte          { return 0 }
func (u *UserApplicationInfo) Extension() int         { return 13 }
func (u *UserApplicationInfo) Class() RepetitionClass { return ClassB }
func (u *UserApplicationInfo) Priority() Priority     { return PriorityNormal }

func componentsWithUserApps(snap *model.Snapshot) []model.Component {
	var out []model.Component
	for _, c := range snap.Components {
		if len(c.UserApps) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func (u *UserApplicationInfo) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	comps := componentsWithUserApps(snap)
	if len(comps) == 0 {
		return 0, true
	}
	total := 0
	for u.idx < len(comps) {
		c := comps[u.idx]
		d := []byte{byte(c.PacketAddress >> 8) & 0x3, byte(c.PacketAddress), byte(len(c.UserApps))}
		for _, ua := range c.UserApps {
			d = append(d, byte(ua.UAType>>8), byte(ua.UAType), byte(len(ua.Data)))
			d = append(d, ua.Data...)
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
		u.idx++
	}
	u.idx = 0
	return total, true
}
