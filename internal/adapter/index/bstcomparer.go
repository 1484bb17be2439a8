package index

import (
	"strings"

	"github.com/vinicius-lino-figueiredo/bst"
)

// bstComparer orders entry trees by stringified field value and identifies
// positions by equality.
type bstComparer struct{}

// NewBSTComparer returns the tree comparer used by index entries.
func NewBSTComparer() bst.Comparer[string, int] {
	return &bstComparer{}
}

// CompareKeys implements bst.Comparer.
func (bc *bstComparer) CompareKeys(a string, b string) (int, error) {
	return strings.Compare(a, b), nil
}

// CompareValues implements bst.Comparer.
func (bc *bstComparer) CompareValues(a int, b int) (bool, error) {
	return a == b, nil
}
