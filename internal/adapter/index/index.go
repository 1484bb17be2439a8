// Package index contains the default [domain.IndexStore] implementation.
//
// Entries are derived state: one AVL tree per (path, field) definition,
// keyed by the stringified field value and holding element positions.
// Entries are destroyed and fully recomputed on rebuild, never patched.
package index

import (
	"context"
	"fmt"
	"slices"

	"github.com/vinicius-lino-figueiredo/bst"
	"github.com/vinicius-lino-figueiredo/bst/adapter/avl"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/data"
)

type entry struct {
	definition domain.IndexDefinition
	tree       bst.BST[string, int]
}

// IndexStore implements [domain.IndexStore].
type IndexStore struct {
	bstComparer bst.Comparer[string, int]
	// registry is keyed by path then field; fieldOrder preserves the
	// field registration order per path, which fixes the rebuild order.
	registry   map[string]map[string]*entry
	fieldOrder map[string][]string
}

// NewIndexStore returns a new implementation of [domain.IndexStore].
func NewIndexStore() domain.IndexStore {
	return &IndexStore{
		bstComparer: NewBSTComparer(),
		registry:    make(map[string]map[string]*entry),
		fieldOrder:  make(map[string][]string),
	}
}

// Create implements [domain.IndexStore]. Redefining a (path, field) pair
// replaces the previous definition; the field keeps its original position in
// the rebuild order.
func (s *IndexStore) Create(ctx context.Context, path, field string, kind domain.IndexKind, elements []any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if field == "" {
		return fmt.Errorf("%w: an index requires a field name", domain.ErrPrecondition)
	}
	switch kind {
	case domain.IndexUnique, domain.IndexMulti:
	default:
		return fmt.Errorf("%w: unknown index kind %q", domain.ErrConfiguration, kind)
	}

	e := &entry{
		definition: domain.IndexDefinition{Path: path, Field: field, Kind: kind},
	}
	if err := s.build(e, elements); err != nil {
		return err
	}

	fields, ok := s.registry[path]
	if !ok {
		fields = make(map[string]*entry)
		s.registry[path] = fields
	}
	if _, exists := fields[field]; !exists {
		s.fieldOrder[path] = append(s.fieldOrder[path], field)
	}
	fields[field] = e
	return nil
}

// Drop implements [domain.IndexStore].
func (s *IndexStore) Drop(path, field string) {
	fields, ok := s.registry[path]
	if !ok {
		return
	}
	if _, exists := fields[field]; !exists {
		return
	}
	delete(fields, field)
	s.fieldOrder[path] = slices.DeleteFunc(s.fieldOrder[path], func(f string) bool {
		return f == field
	})
	if len(fields) == 0 {
		delete(s.registry, path)
		delete(s.fieldOrder, path)
	}
}

// Definitions implements [domain.IndexStore].
func (s *IndexStore) Definitions() map[string]map[string]domain.IndexDefinition {
	res := make(map[string]map[string]domain.IndexDefinition, len(s.registry))
	for path, fields := range s.registry {
		cp := make(map[string]domain.IndexDefinition, len(fields))
		for field, e := range fields {
			cp[field] = e.definition
		}
		res[path] = cp
	}
	return res
}

// Rebuild implements [domain.IndexStore].
func (s *IndexStore) Rebuild(ctx context.Context, path string, elements []any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	fields := s.registry[path]
	for _, field := range s.fieldOrder[path] {
		if err := s.build(fields[field], elements); err != nil {
			return err
		}
	}
	return nil
}

// build recomputes one entry from scratch. Elements that are not
// object-shaped, or whose field is absent, are skipped without error.
func (s *IndexStore) build(e *entry, elements []any) error {
	tree := avl.NewBST(false, 8, s.bstComparer)

	for pos, element := range elements {
		obj, ok := element.(map[string]any)
		if !ok {
			continue
		}
		value, ok := obj[e.definition.Field]
		if !ok {
			continue
		}
		key := data.IndexKey(value)

		if e.definition.Kind == domain.IndexUnique {
			// last element with this value wins, by contract
			if err := s.deleteKey(tree, key); err != nil {
				return err
			}
		}
		if err := tree.Insert(key, pos); err != nil {
			return err
		}
	}

	e.tree = tree
	return nil
}

func (s *IndexStore) deleteKey(tree bst.BST[string, int], key string) error {
	node, err := tree.Search(key)
	if err != nil || node == nil {
		return err
	}
	for _, pos := range slices.Clone(node.Values()) {
		if err := tree.Delete(key, &pos); err != nil {
			return err
		}
	}
	return nil
}

// HasIndexes implements [domain.IndexLookup].
func (s *IndexStore) HasIndexes(path string) bool {
	return len(s.registry[path]) > 0
}

// HasIndex implements [domain.IndexLookup].
func (s *IndexStore) HasIndex(path, field string) bool {
	_, ok := s.registry[path][field]
	return ok
}

// PositionOf implements [domain.IndexLookup]. On a multi index the first
// recorded position is returned; this is a deliberate simplification.
func (s *IndexStore) PositionOf(path, field string, value any) (int, bool) {
	positions := s.PositionsOf(path, field, value)
	if len(positions) == 0 {
		return 0, false
	}
	return positions[0], true
}

// PositionsOf implements [domain.IndexLookup].
func (s *IndexStore) PositionsOf(path, field string, value any) []int {
	e, ok := s.registry[path][field]
	if !ok || e.tree == nil {
		return nil
	}
	node, err := e.tree.Search(data.IndexKey(value))
	if err != nil || node == nil {
		return nil
	}
	return slices.Clone(node.Values())
}
