package grid

// LeftDistance measures along X how far me sits from them when travelling
// leftward from me, wrapping around the grid edge.
func LeftDistance(me, them Position, s Slots) int {
	if me.X == them.X {
		return 0
	}
	if me.X > them.X {
		return me.X - them.X
	}
	return s.Horizontal - them.X + me.X
}

func RightDistance(me, them Position, s Slots) int {
	return LeftDistance(them, me, s)
}

// UpDistance is LeftDistance on the Y axis.
func UpDistance(me, them Position, s Slots) int {
	if me.Y == them.Y {
		return 0
	}
	if me.Y > them.Y {
		return me.Y - them.Y
	}
	return s.Vertical - them.Y + me.Y
}

func DownDistance(me, them Position, s Slots) int {
	return UpDistance(them, me, s)
}
