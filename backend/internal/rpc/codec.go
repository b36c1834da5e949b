package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype the honors service speaks.
const CodecName = "json"

// jsonCodec carries messages as JSON so request and response types stay plain
// Go structs with decimal and time fields.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)   { return json.Marshal(v) }
func (jsonCodec) Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }
func (jsonCodec) Name() string                    { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
