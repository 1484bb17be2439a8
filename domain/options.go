package domain

import "os"

// QueryOptions carries every knob of one query pipeline run.
type QueryOptions struct {
	Where        map[string]any
	Filter       Predicate
	Sort         Sort
	Skip         int64
	Limit        int64
	Page         int64
	PageSize     int64
	Select       []string
	Aggregations []Aggregation
}

// QueryOption configures query behavior through the functional options
// pattern.
type QueryOption func(*QueryOptions)

// WithQueryWhere sets the equality conditions for the filter stage. The
// first condition field carrying an index is served from the index.
func WithQueryWhere(where map[string]any) QueryOption {
	return func(o *QueryOptions) {
		o.Where = where
	}
}

// WithQueryFilter sets a predicate for the filter stage. Predicates always
// run a full linear scan and are never index-accelerated.
func WithQueryFilter(p Predicate) QueryOption {
	return func(o *QueryOptions) {
		o.Filter = p
	}
}

// WithQuerySort sets the stable multi-key sort order for query results.
func WithQuerySort(s Sort) QueryOption {
	return func(o *QueryOptions) {
		o.Sort = s
	}
}

// WithQuerySkip sets the number of elements the query should drop after
// sorting. Negative values are treated as zero.
func WithQuerySkip(s int64) QueryOption {
	return func(o *QueryOptions) {
		o.Skip = s
	}
}

// WithQueryLimit sets the maximum number of elements the query should keep
// after skipping. Non-positive values mean no limit.
func WithQueryLimit(l int64) QueryOption {
	return func(o *QueryOptions) {
		o.Limit = l
	}
}

// WithQueryPage sets the pagination window, applied after skip/limit. A page
// beyond range clamps to the last page instead of erroring.
func WithQueryPage(page, pageSize int64) QueryOption {
	return func(o *QueryOptions) {
		o.Page = page
		o.PageSize = pageSize
	}
}

// WithQuerySelect reduces each result element to the named fields.
func WithQuerySelect(fields ...string) QueryOption {
	return func(o *QueryOptions) {
		o.Select = fields
	}
}

// WithQueryAggregations sets the aggregations computed over the full
// filtered set, independent of sort, limit, pagination and projection.
func WithQueryAggregations(aggs ...Aggregation) QueryOption {
	return func(o *QueryOptions) {
		o.Aggregations = aggs
	}
}

// DeleteOptions carries the element selection of one delete call.
type DeleteOptions struct {
	Predicate Predicate
	Keys      []any
	Field     string
}

// DeleteOption configures delete behavior through the functional options
// pattern.
type DeleteOption func(*DeleteOptions)

// WithDeletePredicate removes every element matching p from an array
// target.
func WithDeletePredicate(p Predicate) DeleteOption {
	return func(o *DeleteOptions) {
		o.Predicate = p
	}
}

// WithDeleteKeys removes elements whose key field value is in keys (array
// target), or unsets the named child keys (object target).
func WithDeleteKeys(keys ...any) DeleteOption {
	return func(o *DeleteOptions) {
		o.Keys = keys
	}
}

// WithDeleteField sets the field matched against delete keys. Defaults to
// "id".
func WithDeleteField(field string) DeleteOption {
	return func(o *DeleteOptions) {
		o.Field = field
	}
}

// UpdateOptions carries the element selection of one update call.
type UpdateOptions struct {
	Where     map[string]any
	Predicate Predicate
}

// UpdateOption configures update behavior through the functional options
// pattern.
type UpdateOption func(*UpdateOptions)

// WithUpdateWhere selects the element to patch by equality conditions,
// index-accelerated when the first indexed condition field yields a
// position.
func WithUpdateWhere(where map[string]any) UpdateOption {
	return func(o *UpdateOptions) {
		o.Where = where
	}
}

// WithUpdatePredicate selects the first element matching p by linear scan.
func WithUpdatePredicate(p Predicate) UpdateOption {
	return func(o *UpdateOptions) {
		o.Predicate = p
	}
}

// PersistenceOptions configures the default [Persistence] implementation.
type PersistenceOptions struct {
	Filename          string
	FileMode          os.FileMode
	DirMode           os.FileMode
	CreateIfNotExists bool
	DefaultValue      map[string]any
	Serializer        Serializer
	Deserializer      Deserializer
	Storage           Storage
}

// PersistenceOption configures persistence behavior through the functional
// options pattern.
type PersistenceOption func(*PersistenceOptions)

// WithPersistenceFilename sets the backing file name.
func WithPersistenceFilename(f string) PersistenceOption {
	return func(o *PersistenceOptions) {
		o.Filename = f
	}
}

// WithPersistenceFileMode sets the permissions of the backing file.
func WithPersistenceFileMode(m os.FileMode) PersistenceOption {
	return func(o *PersistenceOptions) {
		o.FileMode = m
	}
}

// WithPersistenceDirMode sets the permissions of created parent
// directories.
func WithPersistenceDirMode(m os.FileMode) PersistenceOption {
	return func(o *PersistenceOptions) {
		o.DirMode = m
	}
}

// WithPersistenceCreateIfNotExists controls whether an absent backing file
// is created with the default document on load, instead of failing with
// [ErrNotFound].
func WithPersistenceCreateIfNotExists(c bool) PersistenceOption {
	return func(o *PersistenceOptions) {
		o.CreateIfNotExists = c
	}
}

// WithPersistenceDefaultValue sets the document written when the backing
// file is created on load.
func WithPersistenceDefaultValue(doc map[string]any) PersistenceOption {
	return func(o *PersistenceOptions) {
		o.DefaultValue = doc
	}
}

// WithPersistenceSerializer sets the serializer converting the document to
// bytes.
func WithPersistenceSerializer(s Serializer) PersistenceOption {
	return func(o *PersistenceOptions) {
		o.Serializer = s
	}
}

// WithPersistenceDeserializer sets the deserializer converting bytes back
// to the document.
func WithPersistenceDeserializer(d Deserializer) PersistenceOption {
	return func(o *PersistenceOptions) {
		o.Deserializer = d
	}
}

// WithPersistenceStorage sets the storage implementation for low-level file
// operations.
func WithPersistenceStorage(s Storage) PersistenceOption {
	return func(o *PersistenceOptions) {
		o.Storage = s
	}
}

// QuerierOptions configures the default [Querier] implementation.
type QuerierOptions struct {
	Comparer      Comparer
	Aggregator    Aggregator
	TimeGetter    TimeGetter
	PathNavigator PathNavigator
}

// QuerierOption configures querier behavior through the functional options
// pattern.
type QuerierOption func(*QuerierOptions)

// WithQuerierComparer sets the comparer used by sorting and condition
// matching.
func WithQuerierComparer(c Comparer) QuerierOption {
	return func(o *QuerierOptions) {
		o.Comparer = c
	}
}

// WithQuerierAggregator sets the aggregator computing query aggregations.
func WithQuerierAggregator(a Aggregator) QuerierOption {
	return func(o *QuerierOptions) {
		o.Aggregator = a
	}
}

// WithQuerierTimeGetter sets the clock used for execution statistics.
func WithQuerierTimeGetter(t TimeGetter) QuerierOption {
	return func(o *QuerierOptions) {
		o.TimeGetter = t
	}
}

// WithQuerierPathNavigator sets the navigator resolving dotted condition,
// sort and projection fields inside elements.
func WithQuerierPathNavigator(n PathNavigator) QuerierOption {
	return func(o *QuerierOptions) {
		o.PathNavigator = n
	}
}

// AggregatorOptions configures the default [Aggregator] implementation.
type AggregatorOptions struct {
	Comparer      Comparer
	PathNavigator PathNavigator
}

// AggregatorOption configures aggregator behavior through the functional
// options pattern.
type AggregatorOption func(*AggregatorOptions)

// WithAggregatorComparer sets the comparer used by min/max.
func WithAggregatorComparer(c Comparer) AggregatorOption {
	return func(o *AggregatorOptions) {
		o.Comparer = c
	}
}

// WithAggregatorPathNavigator sets the navigator resolving dotted
// aggregation fields inside elements.
func WithAggregatorPathNavigator(n PathNavigator) AggregatorOption {
	return func(o *AggregatorOptions) {
		o.PathNavigator = n
	}
}
