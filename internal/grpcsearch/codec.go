package grpcsearch

import (
	"bytes"
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is the content-subtype the service is spoken in
// ("application/grpc+json"). Numbers are decoded as json.Number so the open
// metadata map can be given back its integer values (see SearchResponse).
const codecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
