package fig

import "github.com/magicbadger/dabmux/internal/model"

// ComponentLabel encodes FIG 1/4: per-component label + short-label
// mask, iterated across components that carry one. Class B.
type ComponentLabel struct {
	idx int
}

func NewComponentLabel() *ComponentLabel { return &ComponentLabel{} }

func (c *ComponentLabel) FIGType() byte          { return 1 }
func (c *ComponentLabel) Extension() int         { return 4 }
func (c *ComponentLabel) Class() RepetitionClass { return ClassB }
func (c *ComponentLabel) Priority() Priority     { return PriorityNormal }

func (c *ComponentLabel) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	labeled := make([]model.Component, 0, len(snap.Components))
	for _, comp := range snap.Components {
		if comp.Label.Text != "" {
			labeled = append(labeled, comp)
		}
	}
	if len(labeled) == 0 {
		return 0, true
	}
	total := 0
	for c.idx < len(labeled) {
		comp := labeled[c.idx]
		d := make([]byte, 2+model.LabelMaxLen+2)
		d[0] = 0 // PD/SCIdS flags, simplified
		d[1] = byte(comp.PacketAddress & 0xFF)
		padded := comp.Label.PaddedText()
		copy(d[2:], model.EBULatinEncode(string(padded[:])))
		mask := comp.Label.ShortMask
		if mask == 0 {
			mask = model.DefaultShortMask(comp.Label.Text)
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
		c.idx++
	}
	c.idx = 0
	return total, true
}
