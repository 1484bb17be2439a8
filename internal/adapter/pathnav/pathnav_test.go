package pathnav

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/pathdb/domain"
)

type PathNavTestSuite struct {
	suite.Suite
	nav domain.PathNavigator
}

func (s *PathNavTestSuite) SetupSuite() {
	s.nav = NewPathNavigator()
}

func (s *PathNavTestSuite) TestParse() {
	// Dotted paths split into key and index tokens
	s.Run("KeysAndIndexes", func() {
		tokens, err := s.nav.Parse("users.0.name")
		s.NoError(err)
		s.Equal([]domain.PathToken{
			{Key: "users"},
			{Index: 0, IsIndex: true},
			{Key: "name"},
		}, tokens)
	})

	// Empty paths and empty segments are rejected
	s.Run("EmptySegments", func() {
		_, err := s.nav.Parse("")
		s.ErrorIs(err, domain.ErrPrecondition)

		_, err = s.nav.Parse("a..b")
		s.ErrorIs(err, domain.ErrPrecondition)

		_, err = s.nav.Parse(".a")
		s.ErrorIs(err, domain.ErrPrecondition)
	})
}

func (s *PathNavTestSuite) TestGet() {
	root := map[string]any{
		"users": []any{
			map[string]any{"name": "ada"},
			map[string]any{"name": "grace"},
		},
		"count": nil,
	}

	s.Run("NestedValue", func() {
		v, ok := s.nav.Get(root, "users.1.name")
		s.True(ok)
		s.Equal("grace", v)
	})

	// A stored nil resolves as present
	s.Run("StoredNil", func() {
		v, ok := s.nav.Get(root, "count")
		s.True(ok)
		s.Nil(v)
	})

	s.Run("MissingPath", func() {
		_, ok := s.nav.Get(root, "users.5.name")
		s.False(ok)

		_, ok = s.nav.Get(root, "nope")
		s.False(ok)

		// descending through a scalar fails
		_, ok = s.nav.Get(root, "users.0.name.deeper")
		s.False(ok)
	})
}

func (s *PathNavTestSuite) TestSet() {
	// Intermediate objects are created on demand
	s.Run("CreatesIntermediates", func() {
		root := map[string]any{}
		s.NoError(s.nav.Set(root, "a.b.c", float64(1)))
		s.Equal(map[string]any{
			"a": map[string]any{"b": map[string]any{"c": float64(1)}},
		}, root)
	})

	s.Run("WritesArrayPosition", func() {
		root := map[string]any{"list": []any{"a", "b"}}
		s.NoError(s.nav.Set(root, "list.1", "c"))
		s.Equal([]any{"a", "c"}, root["list"])
	})

	// Writing past the end of an array fails rather than growing it
	s.Run("OutOfRangePosition", func() {
		root := map[string]any{"list": []any{"a"}}
		s.ErrorIs(s.nav.Set(root, "list.3", "x"), domain.ErrTypeMismatch)
	})

	// Descending through an existing scalar fails
	s.Run("ThroughScalar", func() {
		root := map[string]any{"a": "scalar"}
		s.ErrorIs(s.nav.Set(root, "a.b", float64(1)), domain.ErrTypeMismatch)
	})

	// A nil array slot becomes an object when descended into
	s.Run("NilSlotBecomesObject", func() {
		root := map[string]any{"list": []any{nil}}
		s.NoError(s.nav.Set(root, "list.0.name", "ada"))
		s.Equal([]any{map[string]any{"name": "ada"}}, root["list"])
	})
}

func (s *PathNavTestSuite) TestHas() {
	root := map[string]any{"a": map[string]any{"b": nil}}
	s.True(s.nav.Has(root, "a.b"))
	s.False(s.nav.Has(root, "a.c"))
}

func (s *PathNavTestSuite) TestUnset() {
	// Object keys are removed
	s.Run("ObjectKey", func() {
		root := map[string]any{"a": map[string]any{"b": float64(1), "c": float64(2)}}
		s.NoError(s.nav.Unset(root, "a.b"))
		s.Equal(map[string]any{"a": map[string]any{"c": float64(2)}}, root)
	})

	// Array positions are nulled in place, preserving siblings
	s.Run("ArrayPositionNulled", func() {
		root := map[string]any{"list": []any{"a", "b", "c"}}
		s.NoError(s.nav.Unset(root, "list.1"))
		s.Equal([]any{"a", nil, "c"}, root["list"])
	})

	s.Run("MissingPath", func() {
		root := map[string]any{"a": map[string]any{}}
		s.ErrorIs(s.nav.Unset(root, "a.b"), domain.ErrNotFound)
		s.ErrorIs(s.nav.Unset(root, "x.y"), domain.ErrNotFound)
	})
}

func TestPathNavTestSuite(t *testing.T) {
	suite.Run(t, new(PathNavTestSuite))
}
