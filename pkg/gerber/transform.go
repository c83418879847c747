package gerber

// Polarity is either dark (additive) or clear (subtractive).
type Polarity int

const (
	PolarityDark Polarity = iota
	PolarityClear
)

func (p Polarity) String() string {
	if p == PolarityClear {
		return "clear"
	}
	return "dark"
}

// Mirroring is the %LM mirror axis.
type Mirroring int

const (
	MirrorNone Mirroring = iota
	MirrorX
	MirrorY
	MirrorXY
)

func (m Mirroring) String() string {
	switch m {
	case MirrorX:
		return "X"
	case MirrorY:
		return "Y"
	case MirrorXY:
		return "XY"
	default:
		return "N"
	}
}

// GraphicsTransform is the modal graphics-state transform (§3). It is
// recorded, never applied: geometric application of mirroring, rotation,
// and scaling is a renderer concern (§9).
type GraphicsTransform struct {
	Polarity  Polarity
	Mirroring Mirroring
	Rotation  float64 // degrees, counterclockwise
	Scaling   float64
}

// DefaultTransform is the modal transform in effect before any LP/LM/LR/LS
// statement: dark polarity, no mirroring, zero rotation, unit scale.
func DefaultTransform() GraphicsTransform {
	return GraphicsTransform{
		Polarity:  PolarityDark,
		Mirroring: MirrorNone,
		Rotation:  0.0,
		Scaling:   1.0,
	}
}
