// Package serializer contains the default [domain.Serializer]
// implementation, producing the persisted JSON form of the document.
package serializer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
)

// Serializer implements domain.Serializer.
type Serializer struct{}

// NewSerializer returns a new implementation of domain.Serializer.
func NewSerializer() domain.Serializer {
	return &Serializer{}
}

// Serialize implements domain.Serializer. Times are stored as
// {"$$date": unix-milliseconds} objects so they survive the round trip.
func (s *Serializer) Serialize(ctx context.Context, doc map[string]any) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return json.Marshal(s.copyObject(doc))
}

func (s *Serializer) copyObject(doc map[string]any) map[string]any {
	res := make(map[string]any, len(doc))
	for k, v := range doc {
		res[k] = s.copyAny(v)
	}
	return res
}

func (s *Serializer) copyAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return s.copyObject(t)
	case []any:
		newList := make([]any, len(t))
		for n, itm := range t {
			newList[n] = s.copyAny(itm)
		}
		return newList
	case time.Time:
		return map[string]any{"$$date": float64(t.UnixMilli())}
	default:
		return v
	}
}
