package fig

import "github.com/magicbadger/dabmux/internal/model"

// PacketServiceComponents encodes FIG 0/3: service components
// operating in packet mode (SCId, packet address, DSCTy, DG flag),
// iterated across packet-mode components. Class B.
type PacketServiceComponents struct {
	idx int
}

func NewPacketServiceComponents() *PacketServiceComponents {
	return &PacketServiceComponents{}
}

func (p *PacketServiceComponents) FIGType() byte          { return 0 }
func (p *PacketServiceComponents) Extension() int         { return 3 }
func (p *PacketServiceComponents) Class() RepetitionClass { return ClassB }
func (p *PacketServiceComponents) Priority() Priority     { return PriorityNormal }

func packetComponents(snap *model.Snapshot) []model.Component {
	var out []model.Component
	for _, c := range snap.Components {
		if c.Type == model.ComponentDataPacket {
			out = append(out, c)
		}
	}
	return out
}

func (p *PacketServiceComponents) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	comps := packetComponents(snap)
	if len(comps) == 0 {
		return 0, true
	}
	total := 0
	for p.idx < len(comps) {
		c := comps[p.idx]
		sc, _ := subchannelByUID(c.SubchannelUID, snap)
		d := []byte{
			byte(c.PacketAddress >> 8) & 0x3, byte(c.PacketAddress),
			byte(sc.ID & 0x3F), 0, // DSCTy/DG flag placeholder
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
		p.idx++
	}
	p.idx = 0
	return total, true
}
