package models

// Cell is one square of the board. Coordinates are zero-based.
type Cell struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every heading in a fixed order, used for uniform random picks.
var Directions = [...]Direction{Up, Down, Left, Right}

func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(s); d {
	case Up, Down, Left, Right:
		return d, true
	}
	return "", false
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return ""
}

// Step moves c one cell in direction d. The axes are transposed from screen
// coordinates: up/down move along x, left/right move along y. Existing clients
// render with this mapping.
func (d Direction) Step(c Cell) Cell {
	switch d {
	case Up:
		return Cell{X: c.X - 1, Y: c.Y}
	case Down:
		return Cell{X: c.X + 1, Y: c.Y}
	case Left:
		return Cell{X: c.X, Y: c.Y - 1}
	case Right:
		return Cell{X: c.X, Y: c.Y + 1}
	}
	return c
}

// IsValidDirectionChange rejects turning straight back into the snake's own neck.
func IsValidDirectionChange(current, next Direction) bool {
	return next != current.Opposite()
}
