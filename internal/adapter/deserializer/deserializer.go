// Package deserializer contains the default [domain.Deserializer]
// implementation.
package deserializer

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
)

// Deserializer implements domain.Deserializer.
type Deserializer struct{}

// NewDeserializer returns a new instance of domain.Deserializer.
func NewDeserializer() domain.Deserializer {
	return &Deserializer{}
}

// Deserialize implements domain.Deserializer. {"$$date": ms} objects
// written by the serializer are restored to [time.Time] values.
func (d *Deserializer) Deserialize(ctx context.Context, b []byte) (map[string]any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	doc := make(map[string]any)
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&doc); err != nil {
		return nil, err
	}
	restored := d.convertDates(doc)
	if obj, ok := restored.(map[string]any); ok {
		return obj, nil
	}
	return doc, nil
}

func (d *Deserializer) convertDates(doc map[string]any) any {
	for k, v := range doc {
		if k == "$$date" && len(doc) == 1 {
			if i, ok := v.(float64); ok {
				return time.UnixMilli(int64(i))
			}
		}
		doc[k] = d.convertAny(v)
	}
	return doc
}

func (d *Deserializer) convertAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return d.convertDates(t)
	case []any:
		newL := make([]any, len(t))
		for n, i := range t {
			newL[n] = d.convertAny(i)
		}
		return newL
	default:
		return v
	}
}
