package domain

import "time"

// IndexKind selects how an index maps a field value to element positions.
type IndexKind string

const (
	// IndexUnique keeps a single position per value. When several
	// elements share the same value, the last one in array order wins;
	// this is not an error.
	IndexUnique IndexKind = "unique"
	// IndexMulti keeps every matching position, in array order.
	IndexMulti IndexKind = "multi"
)

// IndexDefinition is the registered intent to index a (path, field) pair.
// Definitions live only for the store instance lifetime; the derived entries
// are rebuilt from data and never persisted.
type IndexDefinition struct {
	Path  string    `pathdb:"path"`
	Field string    `pathdb:"field"`
	Kind  IndexKind `pathdb:"kind"`
}

// SortKey represents a single field and the order which should be used to
// sort it, a positive value meaning ascending order and a negative value
// meaning descending order.
type SortKey struct {
	Field string
	Order int64
}

// Sort represents an ordered list of fields which should be used,
// respectively, to sort the results of a query.
type Sort = []SortKey

// Predicate reports whether a collection element should be selected.
type Predicate func(element any) bool

// AggregationKind names one of the supported aggregation computations.
type AggregationKind string

const (
	AggCount AggregationKind = "count"
	AggSum   AggregationKind = "sum"
	AggAvg   AggregationKind = "avg"
	AggMin   AggregationKind = "min"
	AggMax   AggregationKind = "max"
	AggGroup AggregationKind = "group"
)

// Aggregation describes a single aggregation over the filtered set of a
// query. Field is required for sum/avg/min/max, GroupBy for group. Results
// are keyed by Alias; when empty, the key defaults to the kind, suffixed
// with the field or group-by field when one is set.
type Aggregation struct {
	Kind    AggregationKind
	Field   string
	GroupBy string
	Alias   string
}

// PageInfo describes the pagination window applied to a query result.
// CurrentPage is clamped into [1, TotalPages]; an out-of-range request never
// errors. An empty result set reports TotalPages 0 and CurrentPage 1.
type PageInfo struct {
	CurrentPage int64
	PageSize    int64
	TotalItems  int64
	TotalPages  int64
	HasNext     bool
	HasPrevious bool
}

// QueryStats carries per-call execution statistics. UsedIndex reports
// whether the filter stage served an equality condition from an index; it
// says nothing about sort or pagination, which are never accelerated.
type QueryStats struct {
	TotalRecords    int64
	FilteredRecords int64
	ExecutionTime   time.Duration
	UsedIndex       bool
}

// QueryResult is the materialized outcome of one query call.
type QueryResult struct {
	Data         []any
	Pagination   *PageInfo
	Aggregations map[string]any
	Stats        QueryStats
}

// BatchOpKind enumerates the operations a batch may contain.
type BatchOpKind int

const (
	OpSet BatchOpKind = iota + 1
	OpUnset
	OpPush
	OpDelete
	OpUpdate
	OpCreateIndex
	OpDropIndex
)

// BatchOp is one step of a batch. Only the fields relevant to its Kind are
// read:
//
//   - OpSet: Path, Value
//   - OpUnset: Path
//   - OpPush: Path, Values
//   - OpDelete: Path, and optionally Keys and Field
//   - OpUpdate: Path, Patch, and Where
//   - OpCreateIndex: Path, Field, IndexKind
//   - OpDropIndex: Path, Field
type BatchOp struct {
	Kind      BatchOpKind
	Path      string
	Value     any
	Values    []any
	Keys      []any
	Field     string
	Where     map[string]any
	Patch     map[string]any
	IndexKind IndexKind
}
