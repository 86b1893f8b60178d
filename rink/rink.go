// Package rink holds the sheet geometry and the conversions between the
// continuous playing surface and the discrete board grid. The internal
// linear unit everywhere in this module is the inch.
package rink

import "math"

const (
	inchesPerFoot  = 12.0
	inchesPerMeter = 39.3701
)

// Dist combines feet, inches and meters into internal units.
func Dist(inches, feet, meters float64) float64 {
	return feet*inchesPerFoot + inches + meters*inchesPerMeter
}

// Sheet geometry. The board grid only covers the house box at the far end;
// everything before the hog line is playable ice but never holds a resting
// stone that stays in the game.
const (
	StoneRadius = 5.73 // max circumference stone

	IceWidth  = 14 * inchesPerFoot
	IceLength = 130 * inchesPerFoot
	BoxLength = 27 * inchesPerFoot

	HogLine        = IceLength - BoxLength
	Backline       = IceLength
	BacklineBuffer = 2 * StoneRadius
	// BacklineElim is the point at which stones are removed from the game.
	BacklineElim = Backline + BacklineBuffer

	// Guard-zone geometry, measured from the near hack.
	GuardHogLine = StoneRadius + (6+6+21+72)*inchesPerFoot
	TeeLine      = GuardHogLine + 21*inchesPerFoot
	HouseRadius  = 6 * inchesPerFoot
)

// BoardResolution is the number of grid cells per inch. The cell edge
// (1/BoardResolution) must stay below the stone diameter so that two
// touching stones can never land in the same cell.
const BoardResolution = 0.25

// Per-axis scale factors compensate for the stone radius so that a stone
// center inside the walls always maps into the grid.
const (
	xScale = (IceWidth - 2*StoneRadius) / IceWidth
	yScale = 1.0
)

// adjuster shifts the int-conversion truncation so that BoardToReal returns
// cell centers and BoardToReal(RealToBoard(p)) stays within one cell of p.
const adjuster = 0.5

// BoardSize returns the board tensor dimensions: grid width plus one
// metadata row, and the house-box length in cells.
func BoardSize() (int, int) {
	widthCells := int(IceWidth * BoardResolution)
	heightCells := int(BoxLength * BoardResolution)
	metaRows := 1
	return widthCells + metaRows, heightCells
}

// GridWidth is the number of grid columns, excluding the metadata row.
func GridWidth() int {
	w, _ := BoardSize()
	return w - 1
}

// RealToBoard maps a stone center on the ice to its grid cell.
func RealToBoard(x, y float64) (int, int) {
	bx := (x+IceWidth/2-StoneRadius)/xScale*BoardResolution - adjuster
	by := (y-HogLine-StoneRadius)/yScale*BoardResolution - adjuster
	return int(bx), int(by)
}

// BoardToReal maps a grid cell back to the ice position of its center.
func BoardToReal(x, y int) (float64, float64) {
	realX := (float64(x)+adjuster)/BoardResolution*xScale + StoneRadius - IceWidth/2
	realY := (float64(y)+adjuster)/BoardResolution*yScale + StoneRadius + HogLine
	return realX, realY
}

// InBounds reports whether a cell lies inside the grid the board covers.
func InBounds(x, y int) bool {
	w, h := BoardSize()
	return x >= 0 && x < w-1 && y >= 0 && y < h
}

// DistanceToButton is the distance from an ice position to the house center.
func DistanceToButton(x, y float64) float64 {
	return math.Hypot(x, y-TeeLine)
}
