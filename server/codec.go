package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec 线上编码。msgpack 复用 json 标签，两种编码字段名一致
type Codec interface {
	Name() string
	// FrameType websocket 帧类型
	FrameType() int
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	split(frame []byte) (typ string, raw []byte, err error)
}

// CodecByName 未知名称回退到 JSON
func CodecByName(name string) Codec {
	if name == "msgpack" {
		return MsgpackCodec{}
	}
	return JSONCodec{}
}

type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) FrameType() int { return websocket.TextMessage }

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (JSONCodec) split(frame []byte) (string, []byte, error) {
	var env struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(frame, &env); err != nil {
		return "", nil, fmt.Errorf("server: json envelope: %w", err)
	}
	return env.Type, env.Data, nil
}

type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return "msgpack" }

func (MsgpackCodec) FrameType() int { return websocket.BinaryMessage }

func (MsgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgpackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

func (c MsgpackCodec) split(frame []byte) (string, []byte, error) {
	var env struct {
		Type string             `json:"type"`
		Data msgpack.RawMessage `json:"data"`
	}
	if err := c.Unmarshal(frame, &env); err != nil {
		return "", nil, fmt.Errorf("server: msgpack envelope: %w", err)
	}
	return env.Type, env.Data, nil
}
