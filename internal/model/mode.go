package model

// TransmissionMode is the DAB transmission mode (ETSI EN 300 401 §5.3),
// which fixes the FIC/FIB layout of every CIF but not the Capacity Unit
// budget: every CIF carries exactly 864 CU of MSC payload in any mode.
type TransmissionMode int

const (
	ModeI TransmissionMode = iota + 1
	ModeII
	ModeIII
	ModeIV
)

func (m TransmissionMode) String() string {
	switch m {
	case ModeI:
		return "I"
	case ModeII:
		return "II"
	case ModeIII:
		return "III"
	case ModeIV:
		return "IV"
	default:
		return "unknown"
	}
}

// ModeCapacityCU is the number of Capacity Units available per CIF in
// every transmission mode (864, per ETSI EN 300 401).
const ModeCapacityCU = 864

// FIBsPerCIF and CIFsPerFrame give the FIC layout for each mode. Mode I
// carries 3 FIBs per CIF and the other modes 1; every mode assembles 4
// CIFs per ETI frame (12 FIBs/frame in Mode I).
func (m TransmissionMode) FIBsPerCIF() int {
	switch m {
	case ModeI:
		return 3
	case ModeII, ModeIV:
		return 1
	case ModeIII:
		return 1
	default:
		return 3
	}
}

// CIFsPerFrame is the number of 24ms CIFs assembled into one ETI frame.
func (m TransmissionMode) CIFsPerFrame() int {
	switch m {
	case ModeI:
		return 4
	case ModeII:
		return 4
	case ModeIII:
		return 4
	case ModeIV:
		return 4
	default:
		return 4
	}
}

// MIDValue is the 2-bit Mode Identification field carried in ETI FC.
func (m TransmissionMode) MIDValue() byte {
	switch m {
	case ModeI:
		return 0
	case ModeII:
		return 1
	case ModeIII:
		return 2
	case ModeIV:
		return 3
	default:
		return 0
	}
}

// ParseTransmissionMode maps the configuration-document spelling
// ("I".."IV") onto a TransmissionMode, failing closed on anything else.
func ParseTransmissionMode(s string) (TransmissionMode, error) {
	switch s {
	case "I":
		return ModeI, nil
	case "II":
		return ModeII, nil
	case "III":
		return ModeIII, nil
	case "IV":
		return ModeIV, nil
	default:
		return 0, NewConfigError("transmission_mode", "unknown mode %q", s)
	}
}
