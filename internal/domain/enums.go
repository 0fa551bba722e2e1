package domain

import "fmt"

// Direction selects which language is treated as input for a translation call.
type Direction string

const (
	// DirectionAuto lets the pipeline detect the probable direction from the input.
	DirectionAuto Direction = "auto"
	// DirectionPTToEmakua forces Portuguese -> Emakua.
	DirectionPTToEmakua Direction = "pt_to_em"
	// DirectionEmakuaToPT forces Emakua -> Portuguese.
	DirectionEmakuaToPT Direction = "em_to_pt"
)

func (d Direction) String() string { return string(d) }

func (d Direction) IsValid() bool {
	switch d {
	case DirectionAuto, DirectionPTToEmakua, DirectionEmakuaToPT:
		return true
	}
	return false
}

// IsConcrete reports whether the direction is one of the two translatable
// directions, i.e. not "auto".
func (d Direction) IsConcrete() bool {
	return d == DirectionPTToEmakua || d == DirectionEmakuaToPT
}

// ParseDirection validates a raw direction literal. The empty string maps to
// DirectionAuto, matching the HTTP default.
func ParseDirection(s string) (Direction, error) {
	if s == "" {
		return DirectionAuto, nil
	}
	d := Direction(s)
	if !d.IsValid() {
		return "", fmt.Errorf("%w: unknown direction %q", ErrValidation, s)
	}
	return d, nil
}
