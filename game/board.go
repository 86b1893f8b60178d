// Package game defines the board tensor, the discrete action space, and
// the pure transforms over them: canonicalization, symmetry augmentation
// and end-of-end scoring. Nothing here touches the physics engine.
package game

import (
	"encoding/json"
	"errors"
	"fmt"

	"curling/rink"
)

// Cell and metadata codes. Team 2 codes are the negation of team 1 codes,
// which is what makes canonicalization a plain sign flip.
const (
	Empty int8 = 0

	P1          int8 = 1
	P1NotThrown int8 = 2
	P1OutOfPlay int8 = 3

	P2          int8 = -1
	P2NotThrown int8 = -2
	P2OutOfPlay int8 = -3
)

const (
	StonesPerTeam = 8
	TotalStones   = 2 * StonesPerTeam
)

var ErrNobodysTurn = errors.New("game: all stones thrown, it is nobody's turn")

// Board is the fixed-size tensor encoding of one end. Indexed [x][y];
// the last row is the metadata row whose first 16 slots track per-stone
// thrown/in-play/out-of-play status (slots 0-7 team 1, 8-15 team 2).
type Board [][]int8

// NewBoard returns an empty board with all 16 stones not yet thrown.
func NewBoard() Board {
	w, h := rink.BoardSize()
	b := make(Board, w)
	for x := range b {
		b[x] = make([]int8, h)
	}
	meta := b.Meta()
	for i := 0; i < StonesPerTeam; i++ {
		meta[i] = P1NotThrown
		meta[i+StonesPerTeam] = P2NotThrown
	}
	return b
}

// Clone returns a deep copy. Boards are never mutated in place by the
// engine; every turn produces a fresh tensor.
func (b Board) Clone() Board {
	c := make(Board, len(b))
	for x := range b {
		c[x] = make([]int8, len(b[x]))
		copy(c[x], b[x])
	}
	return c
}

// Meta returns the 16 metadata slots of the board's last row.
func (b Board) Meta() []int8 {
	return b[len(b)-1][:TotalStones]
}

// GridWidth is the number of x columns that hold stone cells.
func (b Board) GridWidth() int {
	return len(b) - 1
}

func notThrown(v int8) bool {
	return v == P1NotThrown || v == P2NotThrown
}

// ThrownStones counts stones that have left the hack: in play or removed.
func (b Board) ThrownStones() int {
	n := 0
	for _, v := range b.Meta() {
		if !notThrown(v) {
			n++
		}
	}
	return n
}

// OutOfPlayCount returns the number of removed stones for a team (1 or -1).
func (b Board) OutOfPlayCount(team int) int {
	code := P1OutOfPlay
	if team != 1 {
		code = P2OutOfPlay
	}
	n := 0
	for _, v := range b.Meta() {
		if v == code {
			n++
		}
	}
	return n
}

// NextPlayer derives whose throw it is from the metadata row. Team 1 always
// leads within a pair of throws.
func (b Board) NextPlayer() (int, error) {
	meta := b.Meta()
	for i := 0; i < StonesPerTeam; i++ {
		if meta[i] == P1NotThrown {
			return 1, nil
		}
		if meta[i+StonesPerTeam] == P2NotThrown {
			return -1, nil
		}
	}
	return 0, fmt.Errorf("%w: data row %v", ErrNobodysTurn, meta)
}

// NextSlot returns the metadata slot the next thrown stone of a team would
// occupy, or -1 when the team has thrown all eight.
func (b Board) NextSlot(team int) int {
	meta := b.Meta()
	start, code := 0, P1NotThrown
	if team != 1 {
		start, code = StonesPerTeam, P2NotThrown
	}
	for i := start; i < start+StonesPerTeam; i++ {
		if meta[i] == code {
			return i
		}
	}
	return -1
}

// StoneCells returns the grid cells occupied by a team's in-play stones.
func (b Board) StoneCells(team int) [][2]int {
	code := P1
	if team != 1 {
		code = P2
	}
	var cells [][2]int
	for x := 0; x < b.GridWidth(); x++ {
		for y, v := range b[x] {
			if v == code {
				cells = append(cells, [2]int{x, y})
			}
		}
	}
	return cells
}

// Repr is a compact single-line summary used in debug logs.
func (b Board) Repr() string {
	return fmt.Sprintf("1:%v:2:%v:d:%v", b.StoneCells(1), b.StoneCells(-1), b.Meta())
}

// String returns a stable serialization suitable as a cache or search key.
func (b Board) String() string {
	data, err := json.Marshal([][]int8(b))
	if err != nil {
		// A rectangular int8 tensor always marshals.
		panic(fmt.Sprintf("game: board marshal: %v", err))
	}
	return string(data)
}

// BoardFromString is the inverse of String.
func BoardFromString(s string) (Board, error) {
	var raw [][]int8
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("game: board unmarshal: %w", err)
	}
	return Board(raw), nil
}
