package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/pathdb/domain"
)

type IndexStoreTestSuite struct {
	suite.Suite
}

func (s *IndexStoreTestSuite) elements() []any {
	return []any{
		map[string]any{"id": float64(1), "dept": "A"},
		map[string]any{"id": float64(2), "dept": "B"},
		map[string]any{"id": float64(3), "dept": "A"},
	}
}

func (s *IndexStoreTestSuite) TestCreate() {
	ctx := context.Background()

	// A unique index records one position per value
	s.Run("Unique", func() {
		store := NewIndexStore()
		s.NoError(store.Create(ctx, "users", "id", domain.IndexUnique, s.elements()))

		s.True(store.HasIndex("users", "id"))
		s.True(store.HasIndexes("users"))
		s.False(store.HasIndex("users", "dept"))
		s.False(store.HasIndexes("orders"))

		pos, ok := store.PositionOf("users", "id", float64(2))
		s.True(ok)
		s.Equal(1, pos)

		_, ok = store.PositionOf("users", "id", float64(99))
		s.False(ok)
	})

	// A multi index records every position, in array order
	s.Run("Multi", func() {
		store := NewIndexStore()
		s.NoError(store.Create(ctx, "users", "dept", domain.IndexMulti, s.elements()))

		s.Equal([]int{0, 2}, store.PositionsOf("users", "dept", "A"))
		s.Equal([]int{1}, store.PositionsOf("users", "dept", "B"))
		s.Empty(store.PositionsOf("users", "dept", "C"))
	})

	// On a unique index, the last element with a duplicated value wins
	s.Run("UniqueLastWins", func() {
		store := NewIndexStore()
		s.NoError(store.Create(ctx, "users", "dept", domain.IndexUnique, s.elements()))

		s.Equal([]int{2}, store.PositionsOf("users", "dept", "A"))
	})

	// Non-object elements and elements missing the field are skipped
	s.Run("SkipsUnindexable", func() {
		store := NewIndexStore()
		elements := []any{
			"scalar",
			map[string]any{"name": "no id"},
			map[string]any{"id": float64(7)},
		}
		s.NoError(store.Create(ctx, "users", "id", domain.IndexUnique, elements))

		pos, ok := store.PositionOf("users", "id", float64(7))
		s.True(ok)
		s.Equal(2, pos)
	})

	// Numeric and string forms of the same value share an index key
	s.Run("KeyCoercion", func() {
		store := NewIndexStore()
		elements := []any{map[string]any{"id": float64(30)}}
		s.NoError(store.Create(ctx, "users", "id", domain.IndexUnique, elements))

		pos, ok := store.PositionOf("users", "id", "30")
		s.True(ok)
		s.Equal(0, pos)
	})

	s.Run("InvalidArguments", func() {
		store := NewIndexStore()
		s.ErrorIs(store.Create(ctx, "users", "", domain.IndexUnique, nil), domain.ErrPrecondition)
		s.ErrorIs(store.Create(ctx, "users", "id", domain.IndexKind("bogus"), nil), domain.ErrConfiguration)
	})
}

func (s *IndexStoreTestSuite) TestPositionOfOnMulti() {
	ctx := context.Background()
	store := NewIndexStore()
	s.NoError(store.Create(ctx, "users", "dept", domain.IndexMulti, s.elements()))

	// The first recorded position is returned for a multi-valued key
	pos, ok := store.PositionOf("users", "dept", "A")
	s.True(ok)
	s.Equal(0, pos)
}

func (s *IndexStoreTestSuite) TestDrop() {
	ctx := context.Background()
	store := NewIndexStore()
	s.NoError(store.Create(ctx, "users", "id", domain.IndexUnique, s.elements()))
	s.NoError(store.Create(ctx, "users", "dept", domain.IndexMulti, s.elements()))

	// Dropping one field leaves siblings on the same path untouched
	store.Drop("users", "id")
	s.False(store.HasIndex("users", "id"))
	s.True(store.HasIndex("users", "dept"))
	s.Empty(store.PositionsOf("users", "id", float64(1)))

	// Dropping an absent definition is a no-op
	store.Drop("users", "id")
	store.Drop("orders", "id")

	store.Drop("users", "dept")
	s.False(store.HasIndexes("users"))
}

func (s *IndexStoreTestSuite) TestDefinitions() {
	ctx := context.Background()
	store := NewIndexStore()
	s.NoError(store.Create(ctx, "users", "id", domain.IndexUnique, nil))

	defs := store.Definitions()
	s.Equal(map[string]map[string]domain.IndexDefinition{
		"users": {
			"id": {Path: "users", Field: "id", Kind: domain.IndexUnique},
		},
	}, defs)

	// The returned registry is an independent copy
	delete(defs, "users")
	s.True(store.HasIndex("users", "id"))
}

func (s *IndexStoreTestSuite) TestRebuild() {
	ctx := context.Background()
	store := NewIndexStore()
	s.NoError(store.Create(ctx, "users", "id", domain.IndexUnique, s.elements()))
	s.NoError(store.Create(ctx, "users", "dept", domain.IndexMulti, s.elements()))

	// Rebuilding replaces every entry on the path with the new snapshot
	s.NoError(store.Rebuild(ctx, "users", []any{
		map[string]any{"id": float64(3), "dept": "C"},
	}))

	pos, ok := store.PositionOf("users", "id", float64(3))
	s.True(ok)
	s.Equal(0, pos)
	_, ok = store.PositionOf("users", "id", float64(1))
	s.False(ok)
	s.Equal([]int{0}, store.PositionsOf("users", "dept", "C"))
	s.Empty(store.PositionsOf("users", "dept", "A"))

	// Rebuilding to an empty snapshot empties the entries but keeps the
	// definitions
	s.NoError(store.Rebuild(ctx, "users", nil))
	s.True(store.HasIndex("users", "id"))
	s.Empty(store.PositionsOf("users", "id", float64(3)))
}

func (s *IndexStoreTestSuite) TestRedefinition() {
	ctx := context.Background()
	store := NewIndexStore()
	s.NoError(store.Create(ctx, "users", "dept", domain.IndexMulti, s.elements()))
	s.Equal([]int{0, 2}, store.PositionsOf("users", "dept", "A"))

	// Redefining the same (path, field) pair replaces the definition
	s.NoError(store.Create(ctx, "users", "dept", domain.IndexUnique, s.elements()))
	s.Equal(domain.IndexUnique, store.Definitions()["users"]["dept"].Kind)
	s.Equal([]int{2}, store.PositionsOf("users", "dept", "A"))
}

func TestIndexStoreTestSuite(t *testing.T) {
	suite.Run(t, new(IndexStoreTestSuite))
}
