package store

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctymsgpack "github.com/zclconf/go-cty/cty/msgpack"
)

// Codec turns a step result into durable bytes and back.
type Codec interface {
	Name() string
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONCodec stores results as JSON. Numbers decode as float64, objects as
// map[string]any and arrays as []any.
type JSONCodec struct{}

// Name implements Codec.
func (JSONCodec) Name() string { return "json" }

// Encode implements Codec.
func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode implements Codec.
func (JSONCodec) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// CtyCodec stores results as dynamically typed cty values in msgpack, which
// keeps the full type of the value alongside it. Results that are not already
// a cty.Value are converted using their implied type. Decode always returns a
// cty.Value.
type CtyCodec struct{}

// Name implements Codec.
func (CtyCodec) Name() string { return "cty" }

// Encode implements Codec.
func (CtyCodec) Encode(v any) ([]byte, error) {
	val, ok := v.(cty.Value)
	if !ok {
		ty, err := gocty.ImpliedType(v)
		if err != nil {
			return nil, fmt.Errorf("unable to infer cty type for %T: %w", v, err)
		}
		val, err = gocty.ToCtyValue(v, ty)
		if err != nil {
			return nil, err
		}
	}
	return ctymsgpack.Marshal(val, cty.DynamicPseudoType)
}

// Decode implements Codec.
func (CtyCodec) Decode(data []byte) (any, error) {
	return ctymsgpack.Unmarshal(data, cty.DynamicPseudoType)
}

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "cty":
		return CtyCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q: must be 'json' or 'cty'", name)
	}
}
