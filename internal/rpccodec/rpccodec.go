// Package rpccodec is the wire codec the sequencer forces on every gRPC
// connection it dials or serves. pb's message types are plain Go
// structs, not proto.Message implementations (see pb's package doc), so
// grpc-go's built-in "proto" codec cannot marshal them: it type-asserts
// every value to proto.Message and fails with "message is *pb.X, want
// proto.Message" the instant a real RPC tries to put bytes on the wire.
// Codec is a JSON-backed replacement that every dial and serve call
// forces (grpc.ForceCodec / grpc.ForceServerCodec) so the same plain
// structs serialize correctly end to end; it is not registered in grpc's
// global codec registry.
package rpccodec

import "encoding/json"

// Name is both the codec's Name() and the gRPC content-subtype every
// dial and serve call in this repository forces, so client and server
// always agree on wire format.
const Name = "json"

// Codec implements google.golang.org/grpc/encoding.Codec.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return Name
}
