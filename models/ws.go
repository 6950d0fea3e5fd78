package models

const (
	MessageInit        = "init"
	MessageStateUpdate = "state-update"
)

// InitMessage is sent once to a session when it joins.
type InitMessage struct {
	Type  string `json:"type" msgpack:"type"`
	Food  Cell   `json:"food" msgpack:"food"`
	Snake []Cell `json:"snake" msgpack:"snake"`
}

type PlayerView struct {
	ID       string      `json:"id" msgpack:"id"`
	Username string      `json:"username,omitempty" msgpack:"username,omitempty"`
	State    PlayerState `json:"state" msgpack:"state"`
	Snake    []Cell      `json:"snake" msgpack:"snake"`
	Score    int         `json:"score" msgpack:"score"`
}

// StateUpdate is an immutable snapshot of the whole board taken after a tick.
type StateUpdate struct {
	Players []PlayerView `json:"players" msgpack:"players"`
	Food    Cell         `json:"food" msgpack:"food"`
}

type StateUpdateMessage struct {
	Type string      `json:"type" msgpack:"type"`
	Data StateUpdate `json:"data" msgpack:"data"`
}

func NewStateUpdateMessage(update StateUpdate) StateUpdateMessage {
	return StateUpdateMessage{Type: MessageStateUpdate, Data: update}
}
