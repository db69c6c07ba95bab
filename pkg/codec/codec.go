// Package codec handles payload serialization across the worker boundary.
//
// Workers are isolated from the pool manager; payloads and responses cross
// the boundary as serialized bytes, not shared references. The default
// codec is MessagePack.
package codec

import "github.com/vmihailenco/msgpack/v5"

// Payload is a serialized task payload or response.
type Payload []byte

// Decode deserializes the payload into v.
func (p Payload) Decode(v interface{}) error {
	return msgpack.Unmarshal(p, v)
}

// Codec serializes values crossing the worker boundary
type Codec interface {
	// Marshal serializes v into a Payload
	Marshal(v interface{}) (Payload, error)

	// Unmarshal deserializes a Payload into v
	Unmarshal(p Payload, v interface{}) error
}

// MsgpackCodec implements Codec using MessagePack
type MsgpackCodec struct{}

// NewMsgpackCodec creates the default MessagePack codec
func NewMsgpackCodec() Codec {
	return &MsgpackCodec{}
}

// Marshal serializes v into a Payload
func (c *MsgpackCodec) Marshal(v interface{}) (Payload, error) {
	return msgpack.Marshal(v)
}

// Unmarshal deserializes a Payload into v
func (c *MsgpackCodec) Unmarshal(p Payload, v interface{}) error {
	return msgpack.Unmarshal(p, v)
}
