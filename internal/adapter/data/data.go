// Package data defines the closed value space stored in the document tree
// and the operations over it: normalization of arbitrary Go values,
// deep-copy, deep-merge and index-key coercion.
//
// Every value entering the document is normalized into one of: nil, bool,
// float64, string, []any, map[string]any, time.Time.
package data

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	goreflect "github.com/goccy/go-reflect"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
)

// TagName is the struct tag read when normalizing struct values.
const TagName = "pathdb"

var timeTyp = goreflect.TypeOf(*new(time.Time))

// Normalize converts an arbitrary Go value into the closed value space.
// Structs become objects keyed by field name or "pathdb" tag; every numeric
// width becomes float64; map keys must be strings.
func Normalize(in any) (any, error) {
	switch t := in.(type) {
	case nil:
		return nil, nil
	case bool, float64, string, time.Time:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int8:
		return float64(t), nil
	case int16:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case uint8:
		return float64(t), nil
	case uint16:
		return float64(t), nil
	case uint32:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case time.Duration:
		return float64(t), nil
	case map[string]any:
		return normalizeMap(t)
	case []any:
		return normalizeList(t)
	}
	return normalizeReflect(goreflect.ValueNoEscapeOf(in))
}

// NormalizeObject normalizes in and requires the result to be an object.
func NormalizeObject(in any) (map[string]any, error) {
	v, err := Normalize(in)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected object, got %T", domain.ErrTypeMismatch, v)
	}
	return obj, nil
}

func normalizeMap(in map[string]any) (map[string]any, error) {
	res := make(map[string]any, len(in))
	for k, v := range in {
		nv, err := Normalize(v)
		if err != nil {
			return nil, err
		}
		res[k] = nv
	}
	return res, nil
}

func normalizeList(in []any) ([]any, error) {
	res := make([]any, len(in))
	for n, v := range in {
		nv, err := Normalize(v)
		if err != nil {
			return nil, err
		}
		res[n] = nv
	}
	return res, nil
}

func normalizeReflect(r goreflect.Value) (any, error) {
	k := r.Kind()
	for k == goreflect.Interface || k == reflect.Pointer {
		if r.IsNil() {
			return nil, nil
		}
		r = r.Elem()
		k = r.Kind()
	}

	switch k {
	case goreflect.Invalid:
		return nil, nil
	case goreflect.Bool:
		return r.Bool(), nil
	case goreflect.Int, goreflect.Int8, goreflect.Int16, goreflect.Int32, goreflect.Int64:
		return float64(r.Int()), nil
	case goreflect.Uint, goreflect.Uint8, goreflect.Uint16, goreflect.Uint32, goreflect.Uint64:
		return float64(r.Uint()), nil
	case goreflect.Float32, goreflect.Float64:
		return r.Float(), nil
	case goreflect.String:
		return r.String(), nil
	case goreflect.Slice:
		if r.IsNil() {
			return nil, nil
		}
		fallthrough
	case goreflect.Array:
		length := r.Len()
		res := make([]any, length)
		for i := range length {
			v, err := Normalize(r.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	case goreflect.Struct:
		if r.Type() == timeTyp {
			return r.Interface(), nil
		}
		return normalizeStruct(r)
	case goreflect.Map:
		if r.IsNil() {
			return nil, nil
		}
		if r.Type().Key().Kind() != goreflect.String {
			return nil, fmt.Errorf("%w: map keys must be strings, got %s", domain.ErrTypeMismatch, r.Type().Key())
		}
		res := make(map[string]any, r.Len())
		for _, key := range r.MapKeys() {
			v, err := Normalize(r.MapIndex(key).Interface())
			if err != nil {
				return nil, err
			}
			res[key.String()] = v
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value type %s", domain.ErrTypeMismatch, r.Type())
	}
}

func normalizeStruct(r goreflect.Value) (map[string]any, error) {
	typ := r.Type()
	numField := r.NumField()

	res := make(map[string]any, numField)

	for n := range numField {
		field := typ.Field(n)
		if field.PkgPath != "" {
			continue
		}
		fieldValue := r.Field(n)

		name := field.Name
		var tagSegments []string
		if tag, ok := field.Tag.Lookup(TagName); ok {
			if tag == "-" {
				continue
			}
			tagSegments = strings.Split(tag, ",")
			if tagSegments[0] != "" {
				name = tagSegments[0]
			}
			tagSegments = tagSegments[1:]
		}
		if slices.Contains(tagSegments, "omitempty") && isNullable(field.Type) && fieldValue.IsNil() {
			continue
		}
		if slices.Contains(tagSegments, "omitzero") && fieldValue.IsZero() {
			continue
		}

		value, err := Normalize(fieldValue.Interface())
		if err != nil {
			return nil, err
		}
		res[name] = value
	}
	return res, nil
}

func isNullable(t goreflect.Type) bool {
	k := t.Kind()
	return k == reflect.Pointer ||
		k == reflect.Slice ||
		k == reflect.Map ||
		k == reflect.Interface
}

// Clone deep-copies a normalized value. Scalars are returned as-is.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		res := make(map[string]any, len(t))
		for k, item := range t {
			res[k] = Clone(item)
		}
		return res
	case []any:
		res := make([]any, len(t))
		for n, item := range t {
			res[n] = Clone(item)
		}
		return res
	default:
		return v
	}
}

// Merge deep-merges src into dst in place and returns dst. Nested object
// fields combine; arrays and scalars in src replace the corresponding dst
// fields.
func Merge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		sv, srcIsObj := v.(map[string]any)
		dv, dstIsObj := dst[k].(map[string]any)
		if srcIsObj && dstIsObj {
			dst[k] = Merge(dv, sv)
			continue
		}
		dst[k] = v
	}
	return dst
}

// IndexKey coerces a field value to the string form used as an index key.
// Numeric 30 and string "30" produce the same key; the collision is
// intentional and relied on by lookups.
func IndexKey(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 64)
	case int:
		return strconv.FormatInt(int64(t), 10)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// AsNumber returns the float64 form of a numeric value, reporting false for
// anything non-numeric.
func AsNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}
