package game

import (
	"log"
	"time"
)

// Start runs the tick timer if at least one player is alive. Starting a
// running loop is a no-op.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.startLocked()
}

// Stop halts the tick timer. Stopping a stopped loop is a no-op.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
}

// Close stops the loop for good. Later joins no longer restart it.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
	g.closed = true
}

func (g *Game) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// Step advances the simulation by one tick and broadcasts the result,
// independently of the timer.
func (g *Game) Step() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stepLocked()
}

func (g *Game) stepLocked() {
	g.tick()
	g.ticks++
	g.publisher.Broadcast(g.snapshotLocked())
}

func (g *Game) startLocked() {
	if g.running || g.closed || len(g.aliveIDsLocked()) == 0 {
		return
	}
	stop := make(chan struct{})
	g.stop = stop
	g.running = true
	go g.run(stop)
	log.Println("Game started")
}

func (g *Game) stopLocked() bool {
	if !g.running {
		return false
	}
	close(g.stop)
	g.stop = nil
	g.running = false
	log.Println("Game stopped")
	return true
}

// stopIfIdleLocked stops the loop once nobody is alive and sends one last
// update so clients see the final board.
func (g *Game) stopIfIdleLocked() {
	if len(g.aliveIDsLocked()) > 0 {
		return
	}
	if g.stopLocked() {
		g.publisher.Broadcast(g.snapshotLocked())
	}
}

func (g *Game) run(stop <-chan struct{}) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			g.mu.Lock()
			// A stop may have landed while this tick waited for the lock.
			select {
			case <-stop:
				g.mu.Unlock()
				return
			default:
			}
			g.stepLocked()
			g.mu.Unlock()
		}
	}
}
