package fig

import "github.com/magicbadger/dabmux/internal/model"

// OtherEnsembleServices encodes FIG 0/24: services carried by other,
// linked ensembles. Like FIG 0/21, the configuration document has no
// other-ensemble fields yet; kept wired for forward compatibility.
type OtherEnsembleServices struct{}

func NewOtherEnsembleServices() *OtherEnsembleServices { return &OtherEnsembleServices{} }

func (o *OtherEnsembleServices) FIGType() byte          { return 0 }
func (o *OtherEnsembleServices) Extension() int         { return 24 }
func (o *OtherEnsembleServices) Class() RepetitionClass { return ClassB }
func (o *OtherEnsembleServices) Priority() Priority     { return PriorityNormal }

func (o *OtherEnsembleServices) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	return 0, true
}
