package protocol

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mapleleafu/snakearena/snakearena-backend/models"
)

var (
	ErrMalformed        = errors.New("malformed message")
	ErrUnknownType      = errors.New("unknown message type")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrUnknownEncoding  = errors.New("unknown encoding")
)

// MaxUsernameLength caps display names, counted in runes.
const MaxUsernameLength = 32

const (
	TypeJoin      = "join"
	TypeLeave     = "leave"
	TypeMove      = "move"
	TypeDirection = "direction"
)

// Command is one decoded inbound intent: Join, Leave or Move.
type Command interface {
	command()
}

type Join struct {
	Username string
}

type Leave struct{}

type Move struct {
	Direction models.Direction
}

func (Join) command()  {}
func (Leave) command() {}
func (Move) command()  {}

// envelope carries the fields of every variant so a frame is decoded exactly
// once. The top-level direction field belongs to the older
// {"type":"direction"} message.
type envelope struct {
	Type      string   `json:"type" msgpack:"type"`
	Data      *payload `json:"data" msgpack:"data"`
	Direction string   `json:"direction" msgpack:"direction"`
}

type payload struct {
	Username  string `json:"username" msgpack:"username"`
	Direction string `json:"direction" msgpack:"direction"`
}

func Decode(codec Codec, raw []byte) (Command, error) {
	var env envelope
	if err := codec.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case TypeJoin:
		var name string
		if env.Data != nil {
			name = normalizeUsername(env.Data.Username)
		}
		return Join{Username: name}, nil
	case TypeLeave:
		return Leave{}, nil
	case TypeMove:
		if env.Data == nil {
			return nil, fmt.Errorf("%w: move without data", ErrMalformed)
		}
		return parseMove(env.Data.Direction)
	case TypeDirection:
		return parseMove(env.Direction)
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
}

func parseMove(raw string) (Command, error) {
	dir, ok := models.ParseDirection(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
	}
	return Move{Direction: dir}, nil
}

func normalizeUsername(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= MaxUsernameLength {
		return name
	}
	return string([]rune(name)[:MaxUsernameLength])
}
