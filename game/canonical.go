package game

// CanonicalForm returns the board from the acting player's perspective:
// the player to move is always represented as team 1. The transform is a
// sign flip of every cell and metadata slot, so it is its own inverse.
func CanonicalForm(b Board, player int) Board {
	c := b.Clone()
	if player == 1 {
		return c
	}
	for x := range c {
		for y := range c[x] {
			c[x][y] = -c[x][y]
		}
	}
	return c
}

// Symmetry is one augmented (board, policy) pair.
type Symmetry struct {
	Board Board
	Pi    []float64
}

// Symmetries returns boards equivalent to b for training purposes: slot
// permutations of already-thrown stones within each team, and the lateral
// mirror of every variant. The policy vector is assumed invariant under
// these transforms and passed through unchanged.
func Symmetries(b Board, pi []float64) []Symmetry {
	syms := []Symmetry{{Board: b, Pi: pi}}
	syms = permuteSlots(syms, b, pi, 0, StonesPerTeam)
	syms = permuteSlots(syms, b, pi, StonesPerTeam, TotalStones)

	// The sheet is laterally symmetric: mirror every variant found so far
	// across the centerline.
	n := len(syms)
	for i := 0; i < n; i++ {
		syms = append(syms, Symmetry{Board: mirror(syms[i].Board), Pi: pi})
	}
	return syms
}

// permuteSlots swaps metadata slots pairwise among a team's thrown stones.
// Stone order among settled stones carries no meaning for future play, so
// each swap yields an equivalent position. Swapping two slots with the
// same code (both in play, or both out of play) reproduces the input
// tensor, so only mixed in-play/out-of-play pairs are generated.
func permuteSlots(syms []Symmetry, b Board, pi []float64, start, stop int) []Symmetry {
	meta := b.Meta()
	for i := start; i < stop; i++ {
		if notThrown(meta[i]) {
			break
		}
		for j := i + 1; j < stop; j++ {
			if notThrown(meta[j]) {
				break
			}
			if meta[i] == meta[j] {
				continue
			}
			swap := b.Clone()
			m := swap.Meta()
			m[i], m[j] = m[j], m[i]
			syms = append(syms, Symmetry{Board: swap, Pi: pi})
		}
	}
	return syms
}

// mirror reflects the grid across the centerline. The metadata row carries
// no positional information and is copied unchanged.
func mirror(b Board) Board {
	m := b.Clone()
	w := b.GridWidth()
	for x := 0; x < w; x++ {
		copy(m[x], b[w-1-x])
	}
	return m
}
