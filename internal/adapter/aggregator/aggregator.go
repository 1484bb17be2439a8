// Package aggregator contains the default [domain.Aggregator]
// implementation. Aggregations are computed over the full filtered set of a
// query, never over the paginated slice.
package aggregator

import (
	"fmt"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/pathnav"
)

// Aggregator implements [domain.Aggregator].
type Aggregator struct {
	comparer      domain.Comparer
	pathNavigator domain.PathNavigator
}

// NewAggregator returns a new implementation of [domain.Aggregator].
func NewAggregator(options ...domain.AggregatorOption) domain.Aggregator {
	opts := domain.AggregatorOptions{}
	for _, option := range options {
		option(&opts)
	}
	if opts.Comparer == nil {
		opts.Comparer = comparer.NewComparer()
	}
	if opts.PathNavigator == nil {
		opts.PathNavigator = pathnav.NewPathNavigator()
	}
	return &Aggregator{
		comparer:      opts.Comparer,
		pathNavigator: opts.PathNavigator,
	}
}

// Aggregate implements [domain.Aggregator]. Results are keyed by each
// aggregation's alias; see [domain.Aggregation] for the default alias rules.
func (a *Aggregator) Aggregate(elements []any, aggregations []domain.Aggregation) (map[string]any, error) {
	res := make(map[string]any, len(aggregations))

	for _, agg := range aggregations {
		value, err := a.aggregate(elements, agg)
		if err != nil {
			return nil, err
		}
		res[a.alias(agg)] = value
	}
	return res, nil
}

func (a *Aggregator) alias(agg domain.Aggregation) string {
	if agg.Alias != "" {
		return agg.Alias
	}
	if agg.Field != "" {
		return fmt.Sprintf("%s_%s", agg.Kind, agg.Field)
	}
	if agg.GroupBy != "" {
		return fmt.Sprintf("%s_%s", agg.Kind, agg.GroupBy)
	}
	return string(agg.Kind)
}

func (a *Aggregator) aggregate(elements []any, agg domain.Aggregation) (any, error) {
	switch agg.Kind {
	case domain.AggCount:
		return int64(len(elements)), nil
	case domain.AggSum, domain.AggAvg, domain.AggMin, domain.AggMax:
		if agg.Field == "" {
			return nil, fmt.Errorf("%w: aggregation %q requires a field", domain.ErrConfiguration, agg.Kind)
		}
		return a.numeric(elements, agg)
	case domain.AggGroup:
		if agg.GroupBy == "" {
			return nil, fmt.Errorf("%w: group aggregation requires a group-by field", domain.ErrConfiguration)
		}
		return a.group(elements, agg.GroupBy), nil
	default:
		return nil, fmt.Errorf("%w: unknown aggregation kind %q", domain.ErrConfiguration, agg.Kind)
	}
}

// numeric folds the numeric values of the field; non-numeric and absent
// values are skipped. An empty fold yields nil for min/max and avg, never a
// silent zero.
func (a *Aggregator) numeric(elements []any, agg domain.Aggregation) (any, error) {
	var sum float64
	var count int64
	var best float64

	for _, element := range elements {
		value, ok := a.fieldValue(element, agg.Field)
		if !ok {
			continue
		}
		n, ok := data.AsNumber(value)
		if !ok {
			continue
		}

		switch agg.Kind {
		case domain.AggSum, domain.AggAvg:
			sum += n
		case domain.AggMin:
			if count == 0 || n < best {
				best = n
			}
		case domain.AggMax:
			if count == 0 || n > best {
				best = n
			}
		}
		count++
	}

	switch agg.Kind {
	case domain.AggSum:
		return sum, nil
	case domain.AggAvg:
		if count == 0 {
			return nil, nil
		}
		return sum / float64(count), nil
	default: // min, max
		if count == 0 {
			return nil, nil
		}
		return best, nil
	}
}

// group maps the stringified group-by value to its members, preserving
// element order inside each group.
func (a *Aggregator) group(elements []any, groupBy string) map[string][]any {
	res := make(map[string][]any)
	for _, element := range elements {
		value, _ := a.fieldValue(element, groupBy)
		key := data.IndexKey(value)
		res[key] = append(res[key], element)
	}
	return res
}

func (a *Aggregator) fieldValue(element any, field string) (any, bool) {
	obj, ok := element.(map[string]any)
	if !ok {
		return nil, false
	}
	return a.pathNavigator.Get(obj, field)
}
