package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type DataTestSuite struct {
	suite.Suite
}

func (s *DataTestSuite) TestNormalize() {
	// Scalars pass through, every numeric width becomes float64
	s.Run("Scalars", func() {
		v, err := Normalize(nil)
		s.NoError(err)
		s.Nil(v)

		v, err = Normalize(true)
		s.NoError(err)
		s.Equal(true, v)

		v, err = Normalize("hello")
		s.NoError(err)
		s.Equal("hello", v)

		v, err = Normalize(int32(7))
		s.NoError(err)
		s.Equal(float64(7), v)

		v, err = Normalize(uint64(7))
		s.NoError(err)
		s.Equal(float64(7), v)

		v, err = Normalize(float32(1.5))
		s.NoError(err)
		s.Equal(1.5, v)
	})

	// time.Time survives normalization unchanged
	s.Run("Time", func() {
		now := time.Now()
		v, err := Normalize(now)
		s.NoError(err)
		s.Equal(now, v)
	})

	// Maps and slices are normalized recursively
	s.Run("Containers", func() {
		v, err := Normalize(map[string]any{"a": 1, "b": []any{int64(2), "x"}})
		s.NoError(err)
		s.Equal(map[string]any{"a": float64(1), "b": []any{float64(2), "x"}}, v)
	})

	// Structs become objects keyed by field name or tag
	s.Run("Structs", func() {
		type inner struct {
			Count int `pathdb:"count"`
		}
		type outer struct {
			Name    string `pathdb:"name"`
			Skipped string `pathdb:"-"`
			Note    *string
			Empty   []any  `pathdb:"empty,omitempty"`
			Zero    string `pathdb:"zero,omitzero"`
			Inner   inner  `pathdb:"inner"`
		}
		v, err := Normalize(outer{Name: "a", Skipped: "nope", Inner: inner{Count: 3}})
		s.NoError(err)
		s.Equal(map[string]any{
			"name":  "a",
			"Note":  nil,
			"inner": map[string]any{"count": float64(3)},
		}, v)
	})

	// Typed maps and slices are widened into the closed value space
	s.Run("TypedContainers", func() {
		v, err := Normalize(map[string]int{"a": 1})
		s.NoError(err)
		s.Equal(map[string]any{"a": float64(1)}, v)

		v, err = Normalize([]string{"a", "b"})
		s.NoError(err)
		s.Equal([]any{"a", "b"}, v)
	})

	// Non-string map keys are rejected
	s.Run("NonStringMapKeys", func() {
		_, err := Normalize(map[int]any{1: "a"})
		s.Error(err)
	})

	// NormalizeObject rejects non-object values
	s.Run("NormalizeObject", func() {
		obj, err := NormalizeObject(map[string]any{"a": 1})
		s.NoError(err)
		s.Equal(map[string]any{"a": float64(1)}, obj)

		_, err = NormalizeObject("scalar")
		s.Error(err)
	})
}

func (s *DataTestSuite) TestClone() {
	original := map[string]any{
		"a": float64(1),
		"b": []any{map[string]any{"c": "x"}},
	}
	cloned := Clone(original).(map[string]any)
	s.Equal(original, cloned)

	// Mutating the clone leaves the original untouched
	cloned["a"] = float64(2)
	cloned["b"].([]any)[0].(map[string]any)["c"] = "y"
	s.Equal(float64(1), original["a"])
	s.Equal("x", original["b"].([]any)[0].(map[string]any)["c"])
}

func (s *DataTestSuite) TestMerge() {
	// Nested objects combine
	s.Run("NestedObjects", func() {
		dst := map[string]any{"a": map[string]any{"x": float64(1), "y": float64(2)}}
		src := map[string]any{"a": map[string]any{"y": float64(3), "z": float64(4)}}
		s.Equal(map[string]any{
			"a": map[string]any{"x": float64(1), "y": float64(3), "z": float64(4)},
		}, Merge(dst, src))
	})

	// Arrays and scalars replace wholesale
	s.Run("ArraysAndScalarsReplace", func() {
		dst := map[string]any{"a": []any{float64(1), float64(2)}, "b": "old"}
		src := map[string]any{"a": []any{float64(3)}, "b": "new"}
		s.Equal(map[string]any{"a": []any{float64(3)}, "b": "new"}, Merge(dst, src))
	})

	// An object in src replaces a scalar in dst
	s.Run("ObjectOverScalar", func() {
		dst := map[string]any{"a": "scalar"}
		src := map[string]any{"a": map[string]any{"x": float64(1)}}
		s.Equal(map[string]any{"a": map[string]any{"x": float64(1)}}, Merge(dst, src))
	})
}

func (s *DataTestSuite) TestIndexKey() {
	s.Equal("null", IndexKey(nil))
	s.Equal("true", IndexKey(true))
	s.Equal("hello", IndexKey("hello"))
	s.Equal("30", IndexKey(float64(30)))
	s.Equal("1.5", IndexKey(1.5))

	// Numeric 30 and string "30" collide on the same key
	s.Equal(IndexKey("30"), IndexKey(float64(30)))

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.Equal("2024-05-01T10:00:00Z", IndexKey(at))
}

func (s *DataTestSuite) TestAsNumber() {
	n, ok := AsNumber(float64(3))
	s.True(ok)
	s.Equal(float64(3), n)

	n, ok = AsNumber(int64(3))
	s.True(ok)
	s.Equal(float64(3), n)

	_, ok = AsNumber("3")
	s.False(ok)

	_, ok = AsNumber(nil)
	s.False(ok)
}

func TestDataTestSuite(t *testing.T) {
	suite.Run(t, new(DataTestSuite))
}
