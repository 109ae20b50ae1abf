package fig

import "github.com/magicbadger/dabmux/internal/model"

// CountryLTO encodes FIG 0/9: Extended Country Code plus the
// local-time-offset policy, class C.
type CountryLTO struct{}

func NewCountryLTO() *CountryLTO { return &CountryLTO{} }

func (c *CountryLTO) FIGType() byte          { return 0 }
func (c *CountryLTO) Extension() int         { return 9 }
func (c *CountryLTO) Class() RepetitionClass { return ClassC }
func (c *CountryLTO) Priority() Priority     { return PriorityNormal }

func (c *CountryLTO) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	lto := snap.LocalTimeOffset
	neg := lto < 0
	if neg {
		lto = -lto
	}
	d := []byte{0, snap.ECC, 0}
	if neg {
		d[2] |= 1 << 5
	}
	d[2] |= byte(lto) & 0x1F
	rec := make([]byte, 1+len(d))
	rec[0] = header(0, len(d))
	copy(rec[1:], d)
	n, fit := writeAtomic(buf, max, rec)
	if !fit {
		return 0, false
	}
	return n, true
}
