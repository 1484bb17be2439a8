// Package msgpack provides an alternative [domain.Serializer] and
// [domain.Deserializer] pair persisting the document in MessagePack instead
// of JSON. Select it with the store's serializer/deserializer options.
package msgpack

import (
	"context"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/data"
)

// Serializer implements domain.Serializer.
type Serializer struct{}

// NewSerializer returns a msgpack-backed implementation of
// domain.Serializer.
func NewSerializer() domain.Serializer {
	return &Serializer{}
}

// Serialize implements domain.Serializer. Times are encoded natively by
// msgpack, no envelope object is needed.
func (s *Serializer) Serialize(ctx context.Context, doc map[string]any) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return msgpack.Marshal(doc)
}

// Deserializer implements domain.Deserializer.
type Deserializer struct{}

// NewDeserializer returns a msgpack-backed implementation of
// domain.Deserializer.
func NewDeserializer() domain.Deserializer {
	return &Deserializer{}
}

// Deserialize implements domain.Deserializer. Decoded integers are
// re-normalized into the store's value space, which keeps all numbers as
// float64.
func (d *Deserializer) Deserialize(ctx context.Context, b []byte) (map[string]any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	doc := make(map[string]any)
	if err := msgpack.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return data.NormalizeObject(doc)
}
