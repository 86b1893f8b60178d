package game

import (
	"fmt"

	"curling/rink"
)

// Weight is the power category of a shot, named by where an unobstructed
// stone of that weight comes to rest.
type Weight string

const (
	WeightGuard   Weight = "guard"
	WeightDraw    Weight = "draw"
	WeightBack    Weight = "back"
	WeightHack    Weight = "hack"
	WeightControl Weight = "control"
	WeightPeel    Weight = "peel"
)

// Weights in fixed enumeration order.
var Weights = []Weight{WeightGuard, WeightDraw, WeightBack, WeightHack, WeightControl, WeightPeel}

var weightFeet = map[Weight]float64{
	WeightGuard:   112,
	WeightDraw:    124,
	WeightBack:    130,
	WeightHack:    136,
	WeightControl: 145,
	WeightPeel:    155,
}

// Distance returns the travel distance of an unobstructed stone thrown at
// this weight, in internal units.
func (w Weight) Distance() float64 {
	return rink.Dist(0, weightFeet[w], 0)
}

// Handle values: spin direction, 0 for a no-rotation throw.
var handles = []int{-1, 0, 1}

// Broom offsets in feet, laterally from the centerline.
const (
	minBroom = -6
	maxBroom = 6
)

// Action is one decoded entry of the fixed action table.
type Action struct {
	Handle int
	Weight Weight
	Broom  int
}

// Valid reports whether the action is playable. Handle and broom must not
// share a sign: an in-turn stone aimed further in-turn never holds the line.
func (a Action) Valid() bool {
	return a.Handle*a.Broom <= 0
}

func (a Action) String() string {
	return fmt.Sprintf("(h=%d w=%s b=%d)", a.Handle, a.Weight, a.Broom)
}

var actionList = buildActionList()

func buildActionList() []Action {
	var list []Action
	for _, h := range handles {
		for _, w := range Weights {
			for b := minBroom; b <= maxBroom; b++ {
				list = append(list, Action{Handle: h, Weight: w, Broom: b})
			}
		}
	}
	return list
}

// ActionSize is the total number of actions, valid or not.
func ActionSize() int {
	return len(actionList)
}

// DecodeAction maps an action index to its (handle, weight, broom) triple.
func DecodeAction(index int) (Action, error) {
	if index < 0 || index >= len(actionList) {
		return Action{}, fmt.Errorf("game: action index %d out of range [0,%d)", index, len(actionList))
	}
	return actionList[index], nil
}

// ActionFor is the reverse lookup; ok is false when no such action exists.
func ActionFor(handle int, weight Weight, broom int) (int, bool) {
	for i, a := range actionList {
		if a.Handle == handle && a.Weight == weight && a.Broom == broom {
			return i, true
		}
	}
	return 0, false
}
