package game

import (
	"log"

	"github.com/mapleleafu/snakearena/snakearena-backend/models"
)

// respawnAttempts bounds the search for an unoccupied interior cell after a
// crash. When it runs out the snake is placed on an occupied cell anyway.
const respawnAttempts = 32

// tick advances every alive player by one cell. Collisions are tested against
// the bodies as they were before the tick, so no player sees another's move
// from the same tick.
func (g *Game) tick() {
	ids := g.aliveIDsLocked()
	before := g.occupiedLocked()
	contested := len(ids) > 1

	for _, id := range ids {
		p := g.players[id]
		newHead := p.Direction.Step(p.Head())

		_, hit := before[newHead]
		if !g.grid.InBounds(newHead) || (contested && hit) {
			g.respawnLocked(p)
			continue
		}

		p.Snake = append([]models.Cell{newHead}, p.Snake...)
		if newHead == g.food {
			p.Score++
			g.respawnFoodLocked()
		} else {
			p.Snake = p.Snake[:len(p.Snake)-1]
		}
	}
}

// respawnLocked resets a crashed player to a single cell strictly inside the
// border with a random heading and no score.
func (g *Game) respawnLocked(p *models.Player) {
	occupied := g.occupiedLocked()
	for _, c := range p.Snake {
		delete(occupied, c)
	}
	occupied[g.food] = struct{}{}

	cell := g.grid.RandomInteriorCell()
	for attempt := 1; attempt < respawnAttempts; attempt++ {
		if _, taken := occupied[cell]; !taken {
			break
		}
		cell = g.grid.RandomInteriorCell()
	}

	p.Snake = []models.Cell{cell}
	p.Score = 0
	p.Direction = models.Directions[g.rng.Intn(len(models.Directions))]
}

func (g *Game) respawnFoodLocked() {
	cell, ok := g.grid.SpawnFood(g.occupiedLocked())
	if !ok {
		log.Printf("Board is full, food stays at (%d,%d)", g.food.X, g.food.Y)
		return
	}
	g.food = cell
}
