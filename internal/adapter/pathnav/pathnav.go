// Package pathnav contains the default [domain.PathNavigator]
// implementation: an explicit dotted-path tokenizer plus nested get, set,
// has and unset over the document tree.
package pathnav

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
)

// PathNavigator implements [domain.PathNavigator].
type PathNavigator struct{}

// NewPathNavigator returns a new implementation of [domain.PathNavigator].
func NewPathNavigator() domain.PathNavigator {
	return &PathNavigator{}
}

// Parse implements [domain.PathNavigator]. A path is a dot-separated token
// list; a token of decimal digits addresses an array position, anything
// else an object key.
func (p *PathNavigator) Parse(path string) ([]domain.PathToken, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrPrecondition)
	}
	parts := strings.Split(path, ".")
	tokens := make([]domain.PathToken, len(parts))
	for n, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty path segment in %q", domain.ErrPrecondition, path)
		}
		if i, err := strconv.Atoi(part); err == nil && i >= 0 {
			tokens[n] = domain.PathToken{Index: i, IsIndex: true}
			continue
		}
		tokens[n] = domain.PathToken{Key: part}
	}
	return tokens, nil
}

// Get implements [domain.PathNavigator]. The boolean reports whether the
// path resolved to a value; a stored nil resolves as present.
func (p *PathNavigator) Get(root map[string]any, path string) (any, bool) {
	tokens, err := p.Parse(path)
	if err != nil {
		return nil, false
	}

	var cur any = root
	for _, tok := range tokens {
		if tok.IsIndex {
			list, ok := cur.([]any)
			if !ok || tok.Index >= len(list) {
				return nil, false
			}
			cur = list[tok.Index]
			continue
		}
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[tok.Key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has implements [domain.PathNavigator].
func (p *PathNavigator) Has(root map[string]any, path string) bool {
	_, ok := p.Get(root, path)
	return ok
}

// Set implements [domain.PathNavigator]. Intermediate objects are created
// as needed; an intermediate array is extended with nils up to a written
// position. Descending through an existing non-container value fails.
func (p *PathNavigator) Set(root map[string]any, path string, value any) error {
	tokens, err := p.Parse(path)
	if err != nil {
		return err
	}

	var cur any = root
	for n, tok := range tokens {
		last := n == len(tokens)-1

		if tok.IsIndex {
			list, ok := cur.([]any)
			if !ok {
				return fmt.Errorf("%w: %q is not an array at segment %d", domain.ErrTypeMismatch, path, n)
			}
			if tok.Index >= len(list) {
				return fmt.Errorf("%w: position %d out of range at %q", domain.ErrTypeMismatch, tok.Index, path)
			}
			if last {
				list[tok.Index] = value
				return nil
			}
			if list[tok.Index] == nil {
				list[tok.Index] = make(map[string]any)
			}
			cur = list[tok.Index]
			continue
		}

		obj, ok := cur.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %q is not an object at segment %d", domain.ErrTypeMismatch, path, n)
		}
		if last {
			obj[tok.Key] = value
			return nil
		}
		next, exists := obj[tok.Key]
		if !exists || next == nil {
			next = make(map[string]any)
			obj[tok.Key] = next
		}
		cur = next
	}
	return nil
}

// Unset implements [domain.PathNavigator]. An object key is removed; an
// array position is nulled in place, preserving sibling positions.
func (p *PathNavigator) Unset(root map[string]any, path string) error {
	tokens, err := p.Parse(path)
	if err != nil {
		return err
	}

	var cur any = root
	for _, tok := range tokens[:len(tokens)-1] {
		if tok.IsIndex {
			list, ok := cur.([]any)
			if !ok || tok.Index >= len(list) {
				return fmt.Errorf("%w: %q", domain.ErrNotFound, path)
			}
			cur = list[tok.Index]
			continue
		}
		obj, ok := cur.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrNotFound, path)
		}
		cur, ok = obj[tok.Key]
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrNotFound, path)
		}
	}

	last := tokens[len(tokens)-1]
	if last.IsIndex {
		list, ok := cur.([]any)
		if !ok || last.Index >= len(list) {
			return fmt.Errorf("%w: %q", domain.ErrNotFound, path)
		}
		list[last.Index] = nil
		return nil
	}
	obj, ok := cur.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, path)
	}
	if _, exists := obj[last.Key]; !exists {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, path)
	}
	delete(obj, last.Key)
	return nil
}
