package game

import (
	"curling/rink"

	"golang.org/x/exp/slices"
)

// TiedScore is the near-zero sentinel for a completed blank end,
// distinguishable from "game not yet ended" which is exactly 0.
const TiedScore = 1e-5

type rankedStone struct {
	team int8
	dist float64
}

// GameEnded returns 0 while stones remain to be thrown. Once all 16 are
// thrown it scores the end from the acting player's perspective: rank the
// in-house stones by distance to the button and count the leading run of
// same-team stones, positive when the acting player's team holds shot.
func GameEnded(b Board, player int) float64 {
	c := CanonicalForm(b, player)
	if c.ThrownStones() < TotalStones {
		return 0
	}

	var ranked []rankedStone
	for _, team := range []int8{P1, P2} {
		for _, cell := range c.StoneCells(int(team)) {
			x, y := rink.BoardToReal(cell[0], cell[1])
			d := rink.DistanceToButton(x, y)
			if d < rink.HouseRadius+rink.StoneRadius {
				ranked = append(ranked, rankedStone{team: team, dist: d})
			}
		}
	}
	if len(ranked) == 0 {
		return TiedScore
	}

	slices.SortFunc(ranked, func(a, b rankedStone) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		default:
			return 0
		}
	})

	shot := ranked[0].team
	points := 0
	for _, s := range ranked {
		if s.team != shot {
			break
		}
		points++
	}
	return float64(points) * float64(shot)
}
