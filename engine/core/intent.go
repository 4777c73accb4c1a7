package core

// Intent is the per-frame input record produced by an input layer
type Intent struct {
	MoveAxis     Vec2 // X strafes right, Y moves forward
	VerticalAxis int  // -1, 0 or 1
	Fire         bool
	Boost        bool
	Look         Vec2 // pointer deltas, X turns right, Y looks up
}

// Normalized clamps axes into their legal ranges
func (in Intent) Normalized() Intent {
	in.MoveAxis.X = clamp(in.MoveAxis.X, -1, 1)
	in.MoveAxis.Y = clamp(in.MoveAxis.Y, -1, 1)
	switch {
	case in.VerticalAxis > 0:
		in.VerticalAxis = 1
	case in.VerticalAxis < 0:
		in.VerticalAxis = -1
	}
	return in
}
