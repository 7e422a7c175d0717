package engine

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

// marshaler encodes response data; it honours json.Marshaler like encoding/json.
var marshaler = jsoniter.ConfigCompatibleWithStandardLibrary

// Object is a response object that keeps its keys in selection order.
type Object struct {
	keys   []string
	values map[string]any
}

func newObject(size int) *Object {
	return &Object{
		keys:   make([]string, 0, size),
		values: make(map[string]any, size),
	}
}

// Set stores value under key, keeping the first insertion position.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// MarshalJSON writes the object with keys in order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshaler.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshaler.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
