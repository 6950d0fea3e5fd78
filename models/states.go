package models

type PlayerState int

// Numeric values are part of the wire format.
const (
	Alive PlayerState = iota
	Dead
)

func (s PlayerState) String() string {
	switch s {
	case Alive:
		return "alive"
	case Dead:
		return "dead"
	}
	return "unknown"
}

// Player is the simulation's view of one session. A session that has connected
// but not joined yet is Dead with an empty snake.
type Player struct {
	ID        string
	Username  string
	State     PlayerState
	Snake     []Cell
	Direction Direction
	Score     int
}

func (p *Player) Head() Cell {
	return p.Snake[0]
}

func (p *Player) IsAlive() bool {
	return p.State == Alive && len(p.Snake) > 0
}

// View copies the player into its outbound form.
func (p *Player) View() PlayerView {
	snake := make([]Cell, len(p.Snake))
	copy(snake, p.Snake)
	return PlayerView{
		ID:       p.ID,
		Username: p.Username,
		State:    p.State,
		Snake:    snake,
		Score:    p.Score,
	}
}
