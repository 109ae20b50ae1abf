package fig

import "github.com/magicbadger/dabmux/internal/model"

// EnsembleLabel encodes FIG 1/0: the ensemble's 16-character EBU-Latin
// label plus its 16-bit short-label character mask. Class B.
type EnsembleLabel struct{}

func NewEnsembleLabel() *EnsembleLabel { return &EnsembleLabel{} }

func (e *EnsembleLabel) FIGType() byte          { return 1 }
func (e *EnsembleLabel) Extension() int         { return 0 }
func (e *EnsembleLabel) Class() RepetitionClass { return ClassB }
func (e *EnsembleLabel) Priority() Priority     { return PriorityNormal }

func (e *EnsembleLabel) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	d := make([]byte, 2+model.LabelMaxLen+2)
	d[0] = byte(snap.ID >> 8)
	d[1] = byte(snap.ID)
	padded := snap.LongLabel.PaddedText()
	copy(d[2:], model.EBULatinEncode(string(padded[:])))
	mask := snap.LongLabel.ShortMask
	if mask == 0 {
		mask = model.DefaultShortMask(snap.LongLabel.Text)
	}
	d[len(d)-2] = byte(mask >> 8)
	d[len(d)-1] = byte(mask)

	rec := make([]byte, 1+len(d))
	rec[0] = header(1, len(d))
	copy(rec[1:], d)
	n, fit := writeAtomic(buf, max, rec)
	if !fit {
		return 0, false
	}
	return n, true
}
