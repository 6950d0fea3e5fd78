package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns wire frames into values and back. A connection picks one codec
// at handshake time and keeps it for its lifetime.
type Codec interface {
	Name() string
	FrameType() int
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
)

// Lookup resolves the value of the handshake's encoding parameter. The empty
// string selects JSON.
func Lookup(name string) (Codec, error) {
	switch name {
	case "", JSON.Name():
		return JSON, nil
	case MsgPack.Name():
		return MsgPack, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

type jsonCodec struct{}

func (jsonCodec) Name() string   { return "json" }
func (jsonCodec) FrameType() int { return websocket.TextMessage }

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string   { return "msgpack" }
func (msgpackCodec) FrameType() int { return websocket.BinaryMessage }

func (msgpackCodec) Marshal(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackCodec) Unmarshal(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}
