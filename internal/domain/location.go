package domain

import (
	"fmt"
	"math"
	"strings"
)

// Location is a point in a named world with a facing direction. Yaw and
// pitch are in degrees: yaw 0 faces +Z, yaw 90 faces -X, pitch 90 looks down.
type Location struct {
	World string
	X     float64
	Y     float64
	Z     float64
	Yaw   float64
	Pitch float64
}

func (l Location) Validate() error {
	if strings.TrimSpace(l.World) == "" {
		return fmt.Errorf("%w: world is required", ErrInvalidLocation)
	}
	for _, v := range []float64{l.X, l.Y, l.Z, l.Yaw, l.Pitch} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: coordinates must be finite", ErrInvalidLocation)
		}
	}

	return nil
}

// Direction returns the unit vector the location is facing.
func (l Location) Direction() (x, y, z float64) {
	yaw := l.Yaw * math.Pi / 180
	pitch := l.Pitch * math.Pi / 180
	xz := math.Cos(pitch)

	return -xz * math.Sin(yaw), -math.Sin(pitch), xz * math.Cos(yaw)
}

func (l Location) Add(dx, dy, dz float64) Location {
	l.X += dx
	l.Y += dy
	l.Z += dz
	return l
}

func (l Location) BlockX() int { return int(math.Floor(l.X)) }
func (l Location) BlockY() int { return int(math.Floor(l.Y)) }
func (l Location) BlockZ() int { return int(math.Floor(l.Z)) }

func (l Location) String() string {
	return fmt.Sprintf("%s, %d, %d, %d", l.World, l.BlockX(), l.BlockY(), l.BlockZ())
}

// MarkerPlacement is the offset between the point an observer is sent to and
// the point the marker floats at.
type MarkerPlacement struct {
	Rise    float64
	Forward float64
}

var DefaultMarkerPlacement = MarkerPlacement{Rise: 3, Forward: 2}

// Anchor lifts view by Rise and pushes it Forward blocks along its facing.
func (p MarkerPlacement) Anchor(view Location) Location {
	dx, dy, dz := view.Direction()
	return view.Add(dx*p.Forward, p.Rise+dy*p.Forward, dz*p.Forward)
}
