// Package apiconnect wires the paylink.v1 services to Connect handlers and clients.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// codecName replaces Connect's default JSON codec on handlers and clients.
const codecName = "json"

// Codec returns the JSON codec used by every paylink service. Protobuf
// messages (emptypb.Empty) go through protojson, everything else through
// encoding/json.
func Codec() connect.Codec {
	return jsonCodec{}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}
	return json.Unmarshal(data, v)
}
