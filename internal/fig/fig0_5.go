package fig

import "github.com/magicbadger/dabmux/internal/model"

// ComponentLanguage encodes FIG 0/5: one record per service carrying
// its language code; the record's leading key byte is always 0, not a
// subchannel id. Class B.
type ComponentLanguage struct {
	idx int
}

func NewComponentLanguage() *ComponentLanguage { return &ComponentLanguage{} }

func (c *ComponentLanguage) FIGType() byte          { return 0 }
func (c *ComponentLanguage) Extension() int         { return 5 }
func (c *ComponentLanguage) Class() RepetitionClass { return ClassB }
func (c *ComponentLanguage) Priority() Priority     { return PriorityNormal }

func (c *ComponentLanguage) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	if len(snap.Services) == 0 {
		return 0, true
	}
	total := 0
	for c.idx < len(snap.Services) {
		svc := snap.Services[c.idx]
		d := []byte{0, byte(svc.Language & 0x7F)}
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
		c.idx++
	}
	c.idx = 0
	return total, true
}
