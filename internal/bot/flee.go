package bot

import (
	"math"

	"github.com/Seednode/chomparty/internal/grid"
)

const (
	fleeDistanceExponent = 2.5
	fleeFacingBonus      = 1.25
)

// fleeOrder fixes the order weights are laid out and drawn in.
var fleeOrder = [4]grid.Direction{grid.Left, grid.Right, grid.Up, grid.Down}

// FleeWeight scales a distance super-linearly so far-away directions dominate.
func FleeWeight(distance int, factor float64) float64 {
	return math.Pow(float64(distance), fleeDistanceExponent) * factor
}

// FleeWeights returns the left, right, up and down weights for running away
// from hunter. The axis the hunter is moving along gets a bonus.
func FleeWeights(me grid.Position, hunter PlayerSnapshot, slots grid.Slots) [4]float64 {
	horizontalFactor, verticalFactor := 1.0, 1.0
	if hunter.Direction.Horizontal() {
		horizontalFactor = fleeFacingBonus
	}
	if hunter.Direction.Vertical() {
		verticalFactor = fleeFacingBonus
	}

	them := hunter.Position

	return [4]float64{
		FleeWeight(grid.LeftDistance(me, them, slots), horizontalFactor),
		FleeWeight(grid.RightDistance(me, them, slots), horizontalFactor),
		FleeWeight(grid.UpDistance(me, them, slots), verticalFactor),
		FleeWeight(grid.DownDistance(me, them, slots), verticalFactor),
	}
}

// FleeDirection draws a direction with probability proportional to its flee
// weight. If every weight is zero the draw is uniform and ok is false.
func FleeDirection(me grid.Position, hunter PlayerSnapshot, slots grid.Slots, src Source) (d grid.Direction, ok bool) {
	weights := FleeWeights(me, hunter, slots)

	var total float64
	for _, w := range weights {
		total += w
	}

	if total <= 0 {
		i := int(src.Float64() * float64(len(grid.Directions)))
		if i >= len(grid.Directions) {
			i = len(grid.Directions) - 1
		}
		return grid.Directions[i], false
	}

	r := src.Float64() * total

	var cumulative float64
	last := 0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		cumulative += w
		last = i
		if r < cumulative {
			return fleeOrder[i], true
		}
	}

	// Rounding can leave r a hair above the final sum.
	return fleeOrder[last], true
}
