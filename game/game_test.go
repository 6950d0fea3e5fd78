package game

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/mapleleafu/snakearena/snakearena-backend/config"
	"github.com/mapleleafu/snakearena/snakearena-backend/models"
)

type recorder struct {
	mu      sync.Mutex
	updates []models.StateUpdate
	sent    map[string][]interface{}
}

func newRecorder() *recorder {
	return &recorder{sent: make(map[string][]interface{})}
}

func (r *recorder) Broadcast(update models.StateUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update)
}

func (r *recorder) Send(sessionID string, msg interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[sessionID] = append(r.sent[sessionID], msg)
}

func (r *recorder) broadcasts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

func (r *recorder) last() models.StateUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates[len(r.updates)-1]
}

func (r *recorder) messagesFor(sessionID string) []interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]interface{}(nil), r.sent[sessionID]...)
}

func testConfig(size int) *config.Config {
	return &config.Config{
		GridSize:     size,
		TickInterval: time.Hour,
		StartX:       size / 2,
		StartY:       size / 2,
	}
}

// newTestGame builds a game whose timer never fires on its own within a test.
func newTestGame(t *testing.T, size int) (*Game, *recorder) {
	t.Helper()
	return newTickingGame(t, size, time.Hour)
}

func newTickingGame(t *testing.T, size int, interval time.Duration) (*Game, *recorder) {
	t.Helper()
	cfg := testConfig(size)
	cfg.TickInterval = interval
	rec := newRecorder()
	g := New(cfg, rec, WithRand(rand.New(rand.NewSource(42))))
	t.Cleanup(g.Close)
	return g, rec
}

// placePlayer puts an alive player on the board without going through Join,
// so the timer stays off and ticks are driven by Step.
func placePlayer(g *Game, id string, dir models.Direction, snake ...models.Cell) *models.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := &models.Player{ID: id, State: models.Alive, Direction: dir, Snake: snake}
	g.players[id] = p
	return p
}

func setFood(g *Game, c models.Cell) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.food = c
}

func currentFood(g *Game) models.Cell {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.food
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func findView(update models.StateUpdate, id string) *models.PlayerView {
	for i := range update.Players {
		if update.Players[i].ID == id {
			return &update.Players[i]
		}
	}
	return nil
}

func inInterior(c models.Cell, size int) bool {
	return c.X >= 1 && c.X <= size-2 && c.Y >= 1 && c.Y <= size-2
}
