package fig

import "github.com/magicbadger/dabmux/internal/model"

// FrequencyInformation encodes FIG 0/21: alternate-frequency lists
// (DAB freq = MHz*16; FM freq = (MHz-87.5)*200). The configuration
// document (spec §6) carries no frequency-list fields, so this
// encoder currently has nothing to emit; it is kept wired into the
// carousel so a future configuration extension has a ready home.
type FrequencyInformation struct{}

func NewFrequencyInformation() *FrequencyInformation { return &FrequencyInformation{} }

func (f *FrequencyInformation) FIGType() byte          { return 0 }
func (f *FrequencyInformation) Extension() int         { return 21 }
func (f *FrequencyInformation) Class() RepetitionClass { return ClassB }
func (f *FrequencyInformation) Priority() Priority     { return PriorityNormal }

func (f *FrequencyInformation) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	return 0, true
}
