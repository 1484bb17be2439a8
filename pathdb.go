// Package pathdb provides an embedded, file-backed document store over a
// single JSON document, addressed by dotted paths.
//
// Array-shaped subtrees act as collections: they can be pushed to, deleted
// from, updated, queried with a declarative pipeline (filter, sort,
// skip/limit, pagination, projection, aggregation) and indexed on element
// fields for equality lookups. Indexes are derived, in-memory state,
// rebuilt from the data whenever a mutation can invalidate them; they are
// never persisted.
//
// The basic usage starts with creating a new [Store] instance, which can be
// done by calling [New], and opening it with [Store.Open].
package pathdb

import (
	"os"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/datastore"
)

var (
	// ErrNotFound is returned when a referenced path or key does not
	// exist where existence was required, or when an update matches no
	// element.
	ErrNotFound = domain.ErrNotFound
	// ErrTypeMismatch is returned when an operation requiring an array
	// or an object finds the wrong shape at the path.
	ErrTypeMismatch = domain.ErrTypeMismatch
	// ErrConfiguration is returned for invalid construction or
	// aggregation parameters.
	ErrConfiguration = domain.ErrConfiguration
	// ErrPrecondition is returned when an operation is invoked without
	// an argument it requires.
	ErrPrecondition = domain.ErrPrecondition
	// ErrIndexingDisabled is returned by index operations when the
	// store was built with indexing disabled.
	ErrIndexingDisabled = domain.ErrIndexingDisabled
)

// New creates a new [Store] with the provided configuration options:
//
// - [WithFilename]: sets the backing file name.
//
// - [WithAutoSave]: controls flushing after every mutation.
//
// - [WithCreateIfNotExists]: creates an absent backing file on Open.
//
// - [WithDefaultValue]: sets the document written on creation.
//
// - [WithEnableIndexing]: enables or disables the index subsystem.
//
// - [WithAutoIndex]: rebuilds registered indexes on Open.
//
// - [WithAutoID]: assigns generated ids to pushed elements.
//
// - [WithFileMode], [WithDirMode]: file and directory permissions.
//
// - [WithSerializer], [WithDeserializer]: persisted document encoding.
//
// - [WithStorage], [WithPersistence]: file layer implementations.
//
// - [WithComparer], [WithDecoder], [WithPathNavigator], [WithIndexStore],
// [WithQuerier], [WithAggregator], [WithTimeGetter], [WithIDGenerator]:
// collaborator overrides.
func New(options ...Option) (Store, error) {
	return datastore.NewStore(options...)
}

// Store defines the main interface for interacting with the store. See
// [domain.Store] for the full method contracts.
type Store = domain.Store

// Serializer converts the document to bytes for storage.
type Serializer = domain.Serializer

// Deserializer converts bytes back to the document.
type Deserializer = domain.Deserializer

// Storage provides low-level file operations with crash-safety guarantees.
type Storage = domain.Storage

// Persistence manages loading and flushing the whole document.
type Persistence = domain.Persistence

// Decoder converts between different data representations.
type Decoder = domain.Decoder

// Comparer provides a total ordering over stored values.
type Comparer = domain.Comparer

// PathNavigator provides nested access to the document tree by dotted path.
type PathNavigator = domain.PathNavigator

// IndexStore maintains index definitions and their derived entries.
type IndexStore = domain.IndexStore

// Querier executes one declarative query over a collection snapshot.
type Querier = domain.Querier

// Aggregator computes aggregations over a filtered element set.
type Aggregator = domain.Aggregator

// TimeGetter provides the current time for execution statistics.
type TimeGetter = domain.TimeGetter

// IDGenerator creates unique ids for pushed elements.
type IDGenerator = domain.IDGenerator

// IndexKind selects how an index maps a field value to element positions.
type IndexKind = domain.IndexKind

const (
	// IndexUnique keeps a single position per value, last element wins.
	IndexUnique = domain.IndexUnique
	// IndexMulti keeps every matching position, in array order.
	IndexMulti = domain.IndexMulti
)

// IndexDefinition is the registered intent to index a (path, field) pair.
type IndexDefinition = domain.IndexDefinition

// Sort represents an ordered list of fields which should be used,
// respectively, to sort the results of a query.
type Sort = domain.Sort

// SortKey represents a single field and the order which should be used to
// sort it, a positive value meaning ascending order and a negative value
// meaning descending order.
type SortKey = domain.SortKey

// Predicate reports whether a collection element should be selected.
type Predicate = domain.Predicate

// Aggregation describes a single aggregation over the filtered set of a
// query.
type Aggregation = domain.Aggregation

// AggregationKind names one of the supported aggregation computations.
type AggregationKind = domain.AggregationKind

const (
	AggCount = domain.AggCount
	AggSum   = domain.AggSum
	AggAvg   = domain.AggAvg
	AggMin   = domain.AggMin
	AggMax   = domain.AggMax
	AggGroup = domain.AggGroup
)

// QueryResult is the materialized outcome of one query call.
type QueryResult = domain.QueryResult

// QueryStats carries per-call execution statistics.
type QueryStats = domain.QueryStats

// PageInfo describes the pagination window applied to a query result.
type PageInfo = domain.PageInfo

// BatchOp is one step of a batch; see [domain.BatchOp] for the fields each
// kind reads.
type BatchOp = domain.BatchOp

// BatchOpKind enumerates the operations a batch may contain.
type BatchOpKind = domain.BatchOpKind

const (
	OpSet         = domain.OpSet
	OpUnset       = domain.OpUnset
	OpPush        = domain.OpPush
	OpDelete      = domain.OpDelete
	OpUpdate      = domain.OpUpdate
	OpCreateIndex = domain.OpCreateIndex
	OpDropIndex   = domain.OpDropIndex
)

// QueryOption configures query behavior through the functional options
// pattern.
type QueryOption = domain.QueryOption

// WithQueryWhere sets the equality conditions for the filter stage.
func WithQueryWhere(where map[string]any) QueryOption {
	return domain.WithQueryWhere(where)
}

// WithQueryFilter sets a predicate for the filter stage; predicates always
// scan linearly.
func WithQueryFilter(p Predicate) QueryOption {
	return domain.WithQueryFilter(p)
}

// WithQuerySort sets the stable multi-key sort order for query results.
func WithQuerySort(s Sort) QueryOption {
	return domain.WithQuerySort(s)
}

// WithQuerySkip sets the number of elements the query should drop after
// sorting.
func WithQuerySkip(s int64) QueryOption {
	return domain.WithQuerySkip(s)
}

// WithQueryLimit sets the maximum number of elements the query should keep.
func WithQueryLimit(l int64) QueryOption {
	return domain.WithQueryLimit(l)
}

// WithQueryPage sets the pagination window, applied after skip/limit.
func WithQueryPage(page, pageSize int64) QueryOption {
	return domain.WithQueryPage(page, pageSize)
}

// WithQuerySelect reduces each result element to the named fields.
func WithQuerySelect(fields ...string) QueryOption {
	return domain.WithQuerySelect(fields...)
}

// WithQueryAggregations sets the aggregations computed over the full
// filtered set.
func WithQueryAggregations(aggs ...Aggregation) QueryOption {
	return domain.WithQueryAggregations(aggs...)
}

// DeleteOption configures delete behavior through the functional options
// pattern.
type DeleteOption = domain.DeleteOption

// WithDeletePredicate removes every element matching p from an array
// target.
func WithDeletePredicate(p Predicate) DeleteOption {
	return domain.WithDeletePredicate(p)
}

// WithDeleteKeys removes elements whose key field value is in keys, or
// unsets the named child keys of an object target.
func WithDeleteKeys(keys ...any) DeleteOption {
	return domain.WithDeleteKeys(keys...)
}

// WithDeleteField sets the field matched against delete keys. Defaults to
// "id".
func WithDeleteField(field string) DeleteOption {
	return domain.WithDeleteField(field)
}

// UpdateOption configures update behavior through the functional options
// pattern.
type UpdateOption = domain.UpdateOption

// WithUpdateWhere selects the element to patch by equality conditions.
func WithUpdateWhere(where map[string]any) UpdateOption {
	return domain.WithUpdateWhere(where)
}

// WithUpdatePredicate selects the first element matching p by linear scan.
func WithUpdatePredicate(p Predicate) UpdateOption {
	return domain.WithUpdatePredicate(p)
}

// Option configures store behavior through the functional options pattern.
type Option = datastore.Option

// WithFilename sets the backing file name for the store.
func WithFilename(f string) Option {
	return datastore.WithFilename(f)
}

// WithAutoSave controls whether every mutation flushes the document to the
// backing file.
func WithAutoSave(a bool) Option {
	return datastore.WithAutoSave(a)
}

// WithCreateIfNotExists controls whether an absent backing file is created
// with the default document on Open.
func WithCreateIfNotExists(c bool) Option {
	return datastore.WithCreateIfNotExists(c)
}

// WithDefaultValue sets the document written when the backing file is
// created on Open.
func WithDefaultValue(doc map[string]any) Option {
	return datastore.WithDefaultValue(doc)
}

// WithEnableIndexing controls whether indexes can be created and consulted.
func WithEnableIndexing(e bool) Option {
	return datastore.WithEnableIndexing(e)
}

// WithAutoIndex controls whether Open rebuilds all previously registered
// index definitions.
func WithAutoIndex(a bool) Option {
	return datastore.WithAutoIndex(a)
}

// WithAutoID makes Push assign a generated id to object elements lacking
// one.
func WithAutoID(a bool) Option {
	return datastore.WithAutoID(a)
}

// WithFileMode sets the permissions of the backing file.
func WithFileMode(f os.FileMode) Option {
	return datastore.WithFileMode(f)
}

// WithDirMode sets the permissions of created parent directories.
func WithDirMode(d os.FileMode) Option {
	return datastore.WithDirMode(d)
}

// WithSerializer sets the serializer for converting the document to bytes.
func WithSerializer(s Serializer) Option {
	return datastore.WithSerializer(s)
}

// WithDeserializer sets the deserializer for converting bytes back to the
// document.
func WithDeserializer(d Deserializer) Option {
	return datastore.WithDeserializer(d)
}

// WithStorage sets the storage implementation for low-level file
// operations.
func WithStorage(s Storage) Option {
	return datastore.WithStorage(s)
}

// WithPersistence sets the persistence implementation loading and flushing
// the document.
func WithPersistence(p Persistence) Option {
	return datastore.WithPersistence(p)
}

// WithComparer sets the comparer for value comparison operations.
func WithComparer(c Comparer) Option {
	return datastore.WithComparer(c)
}

// WithDecoder sets the decoder used by Scan.
func WithDecoder(d Decoder) Option {
	return datastore.WithDecoder(d)
}

// WithPathNavigator sets the navigator for nested path access.
func WithPathNavigator(n PathNavigator) Option {
	return datastore.WithPathNavigator(n)
}

// WithIndexStore sets the index store implementation.
func WithIndexStore(i IndexStore) Option {
	return datastore.WithIndexStore(i)
}

// WithQuerier sets the query engine implementation.
func WithQuerier(q Querier) Option {
	return datastore.WithQuerier(q)
}

// WithAggregator sets the aggregator used by the query engine.
func WithAggregator(a Aggregator) Option {
	return datastore.WithAggregator(a)
}

// WithTimeGetter sets the clock used for execution statistics.
func WithTimeGetter(t TimeGetter) Option {
	return datastore.WithTimeGetter(t)
}

// WithIDGenerator sets the generator producing ids for pushed elements.
func WithIDGenerator(g IDGenerator) Option {
	return datastore.WithIDGenerator(g)
}
