package domain

import (
	"context"
	"os"
	"time"
)

// Store is the main interface for interacting with the embedded database.
// All state is a single document tree persisted to one file; collections are
// array-shaped subtrees addressed by dotted path.
//
// The store assumes exactly one in-process owner. Operations are serialized
// internally and run to completion before the next begins.
type Store interface {
	// Open loads the backing file, preparing the store for further
	// operations. Must be called before any other method.
	Open(ctx context.Context) error

	// Save flushes the in-memory document to the backing file. It is a
	// no-op when no mutation happened since the last flush.
	Save(ctx context.Context) error

	// Get returns the value stored at path. Missing paths return
	// [ErrNotFound].
	Get(ctx context.Context, path string) (any, error)

	// Has reports whether path currently holds a value.
	Has(ctx context.Context, path string) (bool, error)

	// Set stores value at path, creating intermediate objects as needed.
	Set(ctx context.Context, path string, value any) error

	// Unset removes the value at path. Missing paths return
	// [ErrNotFound].
	Unset(ctx context.Context, path string) error

	// Scan decodes the value at path into target, which must be a
	// non-nil pointer. Struct fields use the "pathdb" tag.
	Scan(ctx context.Context, path string, target any) error

	// Push appends values to the array at path. An absent path, or one
	// holding null, is created as an array holding the values; any other
	// non-array path returns [ErrTypeMismatch].
	Push(ctx context.Context, path string, values ...any) error

	// Delete removes elements from the collection at path, selected by
	// [WithDeletePredicate] or [WithDeleteKeys]. On an object target,
	// keys name child fields to unset; with no option the whole path is
	// unset. Returns the number of removed elements or keys.
	Delete(ctx context.Context, path string, options ...DeleteOption) (int64, error)

	// Update deep-merges patch into the first element of the collection
	// at path matching [WithUpdateWhere] or [WithUpdatePredicate], or
	// into the object at path directly. No match returns [ErrNotFound],
	// never a silent no-op.
	Update(ctx context.Context, path string, patch map[string]any, options ...UpdateOption) error

	// CreateIndex registers an index on field for the collection at
	// path and builds it immediately. Redefinition replaces the prior
	// definition.
	CreateIndex(ctx context.Context, path, field string, kind IndexKind) error

	// DropIndex removes the index definition and its derived entry. It
	// is a no-op when the definition is absent.
	DropIndex(ctx context.Context, path, field string) error

	// Indexes returns a deep, independent copy of the definitions
	// registry, keyed by path then field.
	Indexes(ctx context.Context) (map[string]map[string]IndexDefinition, error)

	// PositionOf returns the element position recorded for value on the
	// (path, field) index, reporting false when no position is recorded.
	// On a multi index it returns the first recorded position.
	PositionOf(ctx context.Context, path, field string, value any) (int, bool, error)

	// PositionsOf returns every element position recorded for value on
	// the (path, field) index. The result is empty for a value that is
	// not present and has a single element on a unique index.
	PositionsOf(ctx context.Context, path, field string, value any) ([]int, error)

	// Query runs the declarative pipeline over the collection at path:
	// filter, sort, skip/limit, pagination and projection, with
	// aggregations computed over the full filtered set.
	Query(ctx context.Context, path string, options ...QueryOption) (*QueryResult, error)

	// OrderBy returns the collection at path sorted by the given keys.
	OrderBy(ctx context.Context, path string, sort Sort) ([]any, error)

	// Paginate runs Query with the given pagination window.
	Paginate(ctx context.Context, path string, page, pageSize int64, options ...QueryOption) (*QueryResult, error)

	// Count returns the number of elements matching the equality
	// conditions, or the collection size when where is nil.
	Count(ctx context.Context, path string, where map[string]any) (int64, error)

	// Aggregate computes the given aggregations over the elements
	// matching where.
	Aggregate(ctx context.Context, path string, aggregations []Aggregation, where map[string]any) (map[string]any, error)

	// Distinct returns the distinct values of field across the
	// collection at path, preserving first-occurrence order.
	Distinct(ctx context.Context, path, field string) ([]any, error)

	// Batch applies the operations in order with autosave suspended,
	// flushing once at the end. A mid-batch failure stops execution and
	// leaves earlier steps applied in memory, unflushed.
	Batch(ctx context.Context, ops []BatchOp) error
}

// Serializer converts a document to bytes for storage.
type Serializer interface {
	Serialize(ctx context.Context, doc map[string]any) ([]byte, error)
}

// Deserializer converts bytes back to a document.
type Deserializer interface {
	Deserialize(ctx context.Context, b []byte) (map[string]any, error)
}

// Storage provides low-level file operations with crash-safety guarantees.
type Storage interface {
	Exists(filename string) (bool, error)
	EnsureParentDirectoryExists(filename string, mode os.FileMode) error
	ReadFile(filename string, mode os.FileMode) ([]byte, error)
	CrashSafeWriteFile(filename string, data []byte, dirMode, fileMode os.FileMode) error
	Remove(filename string) error
}

// Persistence manages loading and flushing the whole document.
type Persistence interface {
	// Load reads and parses the backing file. An absent file is either
	// created with the configured default document or reported as
	// [ErrNotFound], per configuration.
	Load(ctx context.Context) (map[string]any, error)

	// Persist serializes the whole document back to the backing file.
	Persist(ctx context.Context, doc map[string]any) error

	// Drop removes the backing file, if any.
	Drop(ctx context.Context) error
}

// Decoder converts between different data representations.
type Decoder interface {
	Decode(src any, target any) error
}

// Comparer provides a total ordering over stored values.
type Comparer interface {
	Compare(a, b any) (int, error)
}

// PathToken is one step of a parsed dotted path: either an object key or an
// array position.
type PathToken struct {
	Key     string
	Index   int
	IsIndex bool
}

// PathNavigator provides nested access to the document tree by dotted path.
// The store never manipulates the tree directly except through it.
type PathNavigator interface {
	Parse(path string) ([]PathToken, error)
	Get(root map[string]any, path string) (any, bool)
	Set(root map[string]any, path string, value any) error
	Has(root map[string]any, path string) bool
	Unset(root map[string]any, path string) error
}

// IndexLookup is the read side of the index store, consulted by the query
// engine.
type IndexLookup interface {
	// HasIndex reports whether a definition exists for (path, field).
	HasIndex(path, field string) bool

	// HasIndexes reports whether path carries any definition.
	HasIndexes(path string) bool

	// PositionOf returns the recorded position for value, false when
	// absent. Multi indexes report the first recorded position.
	PositionOf(path, field string, value any) (int, bool)

	// PositionsOf returns every recorded position for value, in array
	// order, empty when absent.
	PositionsOf(path, field string, value any) []int
}

// IndexStore maintains index definitions and their derived entries. Entries
// are pure derived state: destroyed and fully recomputed on rebuild, never
// incrementally patched.
type IndexStore interface {
	IndexLookup

	// Create registers (or replaces) the definition and performs an
	// immediate full build from elements.
	Create(ctx context.Context, path, field string, kind IndexKind, elements []any) error

	// Drop removes the definition and its entry. No-op when absent;
	// sibling indexes on the same path are untouched.
	Drop(path, field string)

	// Definitions returns a deep, independent copy of the registry.
	Definitions() map[string]map[string]IndexDefinition

	// Rebuild recomputes every entry registered on path from elements,
	// in field-registration order.
	Rebuild(ctx context.Context, path string, elements []any) error
}

// Querier executes one declarative query as a pure function of the
// collection snapshot, the index snapshot and the options.
type Querier interface {
	Query(ctx context.Context, path string, elements []any, lookup IndexLookup, options ...QueryOption) (*QueryResult, error)
}

// Aggregator computes aggregations over an already filtered element set.
type Aggregator interface {
	Aggregate(elements []any, aggregations []Aggregation) (map[string]any, error)
}

// TimeGetter provides the current time for execution statistics.
type TimeGetter interface {
	GetTime() time.Time
}

// IDGenerator creates unique ids assigned to pushed elements when the store
// is built with auto-id enabled.
type IDGenerator interface {
	GenerateID() (string, error)
}
