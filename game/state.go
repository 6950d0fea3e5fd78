package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/mapleleafu/snakearena/snakearena-backend/config"
	"github.com/mapleleafu/snakearena/snakearena-backend/models"
)

var (
	ErrSessionExists  = errors.New("session already connected")
	ErrUnknownSession = errors.New("unknown session")
	ErrAlreadyJoined  = errors.New("player already alive")
)

// Publisher delivers what the game produces to connected sessions. Both
// methods are called with the game lock held and must not block on the game.
type Publisher interface {
	Broadcast(update models.StateUpdate)
	Send(sessionID string, msg interface{})
}

type nopPublisher struct{}

func (nopPublisher) Broadcast(models.StateUpdate) {}
func (nopPublisher) Send(string, interface{})     {}

// Game is the single authoritative game state. Every read and write of the
// players, the food and the loop's running flag goes through mu.
type Game struct {
	mu sync.Mutex

	grid     Grid
	rng      *rand.Rand
	start    models.Cell
	interval time.Duration

	players map[string]*models.Player
	food    models.Cell
	ticks   uint64

	publisher Publisher
	running   bool
	stop      chan struct{}
	closed    bool
}

type Option func(*Game)

// WithRand replaces the time-seeded random source, mostly for tests.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

func New(cfg *config.Config, publisher Publisher, opts ...Option) *Game {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	g := &Game{
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		start:     models.Cell{X: cfg.StartX, Y: cfg.StartY},
		interval:  cfg.TickInterval,
		players:   make(map[string]*models.Player),
		publisher: publisher,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.grid = NewGrid(cfg.GridSize, g.rng)
	g.food = g.grid.RandomCell()

	log.Printf("Game created: %dx%d grid, tick every %s", cfg.GridSize, cfg.GridSize, cfg.TickInterval)
	return g
}

// AddPlayer registers a freshly connected session. The player is not simulated
// until it joins.
func (g *Game) AddPlayer(sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.players[sessionID]; exists {
		return fmt.Errorf("%w: %s", ErrSessionExists, sessionID)
	}
	g.players[sessionID] = &models.Player{
		ID:        sessionID,
		State:     models.Dead,
		Direction: models.Right,
	}
	log.Printf("Player added: %s", sessionID)
	return nil
}

func (g *Game) RemovePlayer(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.players[sessionID]; !exists {
		return
	}
	delete(g.players, sessionID)
	log.Printf("Player removed: %s", sessionID)
	g.stopIfIdleLocked()
}

// Join brings a connected or dead player to life at the start cell and sends
// it the init message. The loop starts if it was idle.
func (g *Game) Join(sessionID, username string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, exists := g.players[sessionID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	if p.State == models.Alive {
		return fmt.Errorf("%w: %s", ErrAlreadyJoined, sessionID)
	}

	p.Username = username
	p.State = models.Alive
	p.Snake = []models.Cell{g.start}
	p.Direction = models.Right
	p.Score = 0

	if g.food == g.start {
		g.respawnFoodLocked()
	}

	g.publisher.Send(sessionID, models.InitMessage{
		Type:  models.MessageInit,
		Food:  g.food,
		Snake: []models.Cell{g.start},
	})
	log.Printf("Player %s joined as %q", sessionID, username)

	g.startLocked()
	return nil
}

// Leave kills the player's snake without disconnecting it.
func (g *Game) Leave(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, exists := g.players[sessionID]
	if !exists || p.State != models.Alive {
		return
	}
	p.State = models.Dead
	p.Snake = nil
	log.Printf("Player %s left", sessionID)
	g.stopIfIdleLocked()
}

// SetDirection changes the heading applied on the next tick. Reversals and
// unknown sessions are ignored.
func (g *Game) SetDirection(sessionID string, dir models.Direction) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, exists := g.players[sessionID]
	if !exists {
		return
	}
	if !models.IsValidDirectionChange(p.Direction, dir) {
		return
	}
	p.Direction = dir
}

// Snapshot returns a copy of the board that is safe to read without the lock.
func (g *Game) Snapshot() models.StateUpdate {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

type Stats struct {
	Ticks     uint64 `json:"ticks"`
	Connected int    `json:"connected"`
	Alive     int    `json:"alive"`
	Running   bool   `json:"running"`
	GridSize  int    `json:"gridSize"`
}

func (g *Game) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Stats{
		Ticks:     g.ticks,
		Connected: len(g.players),
		Alive:     len(g.aliveIDsLocked()),
		Running:   g.running,
		GridSize:  g.grid.Size,
	}
}

func (g *Game) snapshotLocked() models.StateUpdate {
	ids := make([]string, 0, len(g.players))
	for id := range g.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	views := make([]models.PlayerView, 0, len(ids))
	for _, id := range ids {
		views = append(views, g.players[id].View())
	}
	return models.StateUpdate{Players: views, Food: g.food}
}

// aliveIDsLocked returns the ids of simulated players in ascending order. The
// order fixes who eats contested food within one run; clients must not rely on it.
func (g *Game) aliveIDsLocked() []string {
	ids := make([]string, 0, len(g.players))
	for id, p := range g.players {
		if p.IsAlive() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (g *Game) occupiedLocked() map[models.Cell]struct{} {
	occupied := make(map[models.Cell]struct{})
	for _, p := range g.players {
		if !p.IsAlive() {
			continue
		}
		for _, c := range p.Snake {
			occupied[c] = struct{}{}
		}
	}
	return occupied
}
