package fig

import "github.com/magicbadger/dabmux/internal/model"

// Ensemble encodes FIG 0/0: ensemble id, change-event flag, alarm
// flag. Always present, class A, filler whenever the FIC has slack.
type Ensemble struct{}

func NewEnsemble() *Ensemble { return &Ensemble{} }

func (e *Ensemble) FIGType() byte        { return 0 }
func (e *Ensemble) Extension() int       { return 0 }
func (e *Ensemble) Class() RepetitionClass { return ClassA }
func (e *Ensemble) Priority() Priority   { return PriorityNormal }

func (e *Ensemble) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	data := make([]byte, 4)
	data[0] = byte(snap.ID >> 8)
	data[1] = byte(snap.ID)
	data[2] = subHeader(false, false, false, 0) // CN=0 (no service change-count here), OE=0, PD=0 unused for 0/0
	data[3] = 0                                 // change-event flag (bit7), alarm (bit6): none active
	rec := make([]byte, 1+4)
	rec[0] = header(0, 4)
	copy(rec[1:], data)
	n, fit := writeAtomic(buf, max, rec)
	if !fit {
		return 0, false
	}
	return n, true
}
