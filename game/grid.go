package game

import (
	"math/rand"

	"github.com/mapleleafu/snakearena/snakearena-backend/models"
)

// spawnAttemptsPerCell bounds rejection sampling before SpawnFood falls back
// to scanning the board.
const spawnAttemptsPerCell = 4

// Grid is a square board of Size x Size cells.
type Grid struct {
	Size int
	rng  *rand.Rand
}

func NewGrid(size int, rng *rand.Rand) Grid {
	return Grid{Size: size, rng: rng}
}

func (g Grid) InBounds(c models.Cell) bool {
	return c.X >= 0 && c.X < g.Size && c.Y >= 0 && c.Y < g.Size
}

// OnBorder reports whether c lies on the outermost ring.
func (g Grid) OnBorder(c models.Cell) bool {
	return c.X == 0 || c.Y == 0 || c.X == g.Size-1 || c.Y == g.Size-1
}

func (g Grid) RandomCell() models.Cell {
	return models.Cell{X: g.rng.Intn(g.Size), Y: g.rng.Intn(g.Size)}
}

// RandomInteriorCell samples uniformly from [1, Size-2] on both axes.
// Size must be at least 3.
func (g Grid) RandomInteriorCell() models.Cell {
	span := g.Size - 2
	return models.Cell{X: g.rng.Intn(span) + 1, Y: g.rng.Intn(span) + 1}
}

// SpawnFood picks a random cell outside occupied. After a bounded number of
// misses it scans the board row by row and returns the first free cell. It
// returns false only when every cell is occupied.
func (g Grid) SpawnFood(occupied map[models.Cell]struct{}) (models.Cell, bool) {
	if len(occupied) < g.Size*g.Size {
		for attempt := 0; attempt < g.Size*g.Size*spawnAttemptsPerCell; attempt++ {
			c := g.RandomCell()
			if _, taken := occupied[c]; !taken {
				return c, true
			}
		}
	}

	for x := 0; x < g.Size; x++ {
		for y := 0; y < g.Size; y++ {
			c := models.Cell{X: x, Y: y}
			if _, taken := occupied[c]; !taken {
				return c, true
			}
		}
	}
	return models.Cell{}, false
}
