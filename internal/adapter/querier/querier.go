// Package querier contains the default [domain.Querier] implementation: the
// declarative pipeline filter, sort, skip/limit, pagination and projection,
// state-free per call.
package querier

import (
	"context"
	"maps"
	"slices"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/aggregator"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/pathnav"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/timegetter"
)

// Querier implements [domain.Querier].
type Querier struct {
	comparer      domain.Comparer
	aggregator    domain.Aggregator
	timeGetter    domain.TimeGetter
	pathNavigator domain.PathNavigator
}

// NewQuerier returns a new implementation of [domain.Querier].
func NewQuerier(options ...domain.QuerierOption) domain.Querier {
	opts := domain.QuerierOptions{}
	for _, option := range options {
		option(&opts)
	}
	if opts.Comparer == nil {
		opts.Comparer = comparer.NewComparer()
	}
	if opts.PathNavigator == nil {
		opts.PathNavigator = pathnav.NewPathNavigator()
	}
	if opts.Aggregator == nil {
		opts.Aggregator = aggregator.NewAggregator(
			domain.WithAggregatorComparer(opts.Comparer),
			domain.WithAggregatorPathNavigator(opts.PathNavigator),
		)
	}
	if opts.TimeGetter == nil {
		opts.TimeGetter = timegetter.NewTimeGetter()
	}
	return &Querier{
		comparer:      opts.Comparer,
		aggregator:    opts.Aggregator,
		timeGetter:    opts.TimeGetter,
		pathNavigator: opts.PathNavigator,
	}
}

// Query implements [domain.Querier]. It is a pure function of the element
// snapshot, the index snapshot and the options; lookup may be nil to force
// linear scans.
func (q *Querier) Query(ctx context.Context, path string, elements []any, lookup domain.IndexLookup, options ...domain.QueryOption) (*domain.QueryResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	start := q.timeGetter.GetTime()

	opts := domain.QueryOptions{}
	for _, option := range options {
		option(&opts)
	}

	filtered, usedIndex, err := q.filter(path, elements, lookup, &opts)
	if err != nil {
		return nil, err
	}

	res := &domain.QueryResult{
		Stats: domain.QueryStats{
			TotalRecords:    int64(len(elements)),
			FilteredRecords: int64(len(filtered)),
			UsedIndex:       usedIndex,
		},
	}

	// Aggregations reflect the full filtered set, independent of sort,
	// skip/limit, pagination and projection.
	if len(opts.Aggregations) > 0 {
		aggs, err := q.aggregator.Aggregate(filtered, opts.Aggregations)
		if err != nil {
			return nil, err
		}
		res.Aggregations = aggs
	}

	selected := filtered
	if len(opts.Sort) > 0 {
		selected, err = q.sort(selected, opts.Sort)
		if err != nil {
			return nil, err
		}
	}

	selected = q.skipLimit(selected, opts.Skip, opts.Limit)

	if opts.PageSize > 0 {
		selected, res.Pagination = q.paginate(selected, opts.Page, opts.PageSize)
	}

	if len(opts.Select) > 0 {
		selected = q.project(selected, opts.Select)
	}

	res.Data = slices.Clone(selected)
	res.Stats.ExecutionTime = q.timeGetter.GetTime().Sub(start)
	return res, nil
}

// filter runs the where/predicate stage. For an equality-conditions map the
// first indexed condition (in sorted key order, for determinism) is served
// from the index; when that lookup yields zero positions the result is
// empty without consulting the remaining conditions. Predicates always scan
// linearly.
func (q *Querier) filter(path string, elements []any, lookup domain.IndexLookup, opts *domain.QueryOptions) ([]any, bool, error) {
	if opts.Filter != nil {
		res := make([]any, 0, len(elements))
		for _, element := range elements {
			if opts.Filter(element) {
				res = append(res, element)
			}
		}
		return res, false, nil
	}

	if len(opts.Where) == 0 {
		return slices.Clone(elements), false, nil
	}

	if lookup != nil {
		keys := slices.Sorted(maps.Keys(opts.Where))
		for _, field := range keys {
			if !lookup.HasIndex(path, field) {
				continue
			}
			positions := lookup.PositionsOf(path, field, opts.Where[field])
			if len(positions) == 0 {
				// An indexed condition with zero matches returns
				// empty; it never falls back to scanning by the
				// other conditions.
				return nil, false, nil
			}
			candidates := make([]any, 0, len(positions))
			for _, pos := range positions {
				if pos < 0 || pos >= len(elements) {
					continue
				}
				candidates = append(candidates, elements[pos])
			}
			res, err := q.linearWhere(candidates, opts.Where, field)
			if err != nil {
				return nil, false, err
			}
			return res, true, nil
		}
	}

	res, err := q.linearWhere(elements, opts.Where, "")
	return res, false, err
}

// linearWhere keeps the elements matching every condition, except the one
// named by served, which was already applied through an index.
func (q *Querier) linearWhere(elements []any, where map[string]any, served string) ([]any, error) {
	res := make([]any, 0, len(elements))
	for _, element := range elements {
		match, err := q.matches(element, where, served)
		if err != nil {
			return nil, err
		}
		if match {
			res = append(res, element)
		}
	}
	return res, nil
}

func (q *Querier) matches(element any, where map[string]any, served string) (bool, error) {
	obj, ok := element.(map[string]any)
	if !ok {
		// non-object elements never match equality conditions
		return false, nil
	}
	for field, expected := range where {
		if field == served {
			continue
		}
		value, ok := q.pathNavigator.Get(obj, field)
		if !ok {
			return false, nil
		}
		comp, err := q.comparer.Compare(value, expected)
		if err != nil {
			return false, err
		}
		if comp != 0 {
			return false, nil
		}
	}
	return true, nil
}

// sort orders elements by each key in turn; ties fall through to the next
// key and final ties keep the pre-sort relative order.
func (q *Querier) sort(elements []any, sort domain.Sort) ([]any, error) {
	res := slices.Clone(elements)

	var err error
	slices.SortStableFunc(res, func(a, b any) int {
		if err != nil {
			return 0
		}
		for _, key := range sort {
			comp, cErr := q.compareByField(a, b, key)
			if cErr != nil {
				err = cErr
				return 0
			}
			if comp != 0 {
				return comp
			}
		}
		return 0
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (q *Querier) compareByField(a, b any, key domain.SortKey) (int, error) {
	av, _ := q.fieldValue(a, key.Field)
	bv, _ := q.fieldValue(b, key.Field)
	comp, err := q.comparer.Compare(av, bv)
	if err != nil {
		return 0, err
	}
	if key.Order < 0 {
		comp = -comp
	}
	return comp, nil
}

func (q *Querier) fieldValue(element any, field string) (any, bool) {
	obj, ok := element.(map[string]any)
	if !ok {
		return nil, false
	}
	return q.pathNavigator.Get(obj, field)
}

func (q *Querier) skipLimit(elements []any, skip, limit int64) []any {
	// just making sure the slicing won't receive a negative number
	skip = max(0, skip)
	skip = min(skip, int64(len(elements)))
	elements = elements[skip:]

	if limit > 0 && limit < int64(len(elements)) {
		elements = elements[:limit]
	}
	return elements
}

// paginate slices the post-skip/limit data. A page beyond range clamps to
// the last page; an empty set reports zero pages and page one.
func (q *Querier) paginate(elements []any, page, pageSize int64) ([]any, *domain.PageInfo) {
	total := int64(len(elements))
	totalPages := (total + pageSize - 1) / pageSize

	current := max(1, page)
	if totalPages > 0 {
		current = min(current, totalPages)
	} else {
		current = 1
	}

	info := &domain.PageInfo{
		CurrentPage: current,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     current < totalPages,
		HasPrevious: current > 1 && totalPages > 0,
	}

	start := (current - 1) * pageSize
	if start >= total {
		return nil, info
	}
	end := min(start+pageSize, total)
	return elements[start:end], info
}

// project reduces each object element to the named top-level fields.
// Non-object elements pass through unchanged.
func (q *Querier) project(elements []any, fields []string) []any {
	res := make([]any, len(elements))
	for n, element := range elements {
		obj, ok := element.(map[string]any)
		if !ok {
			res[n] = element
			continue
		}
		projected := make(map[string]any, len(fields))
		for _, field := range fields {
			if value, ok := obj[field]; ok {
				projected[field] = value
			}
		}
		res[n] = projected
	}
	return res
}
