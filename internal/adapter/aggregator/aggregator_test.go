package aggregator

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/pathdb/domain"
)

type AggregatorTestSuite struct {
	suite.Suite
	aggregator domain.Aggregator
}

func (s *AggregatorTestSuite) SetupSuite() {
	s.aggregator = NewAggregator()
}

func (s *AggregatorTestSuite) elements() []any {
	return []any{
		map[string]any{"id": float64(1), "dept": "A", "salary": float64(100)},
		map[string]any{"id": float64(2), "dept": "B", "salary": float64(200)},
		map[string]any{"id": float64(3), "dept": "A", "salary": float64(150)},
	}
}

func (s *AggregatorTestSuite) TestNumericAggregations() {
	res, err := s.aggregator.Aggregate(s.elements(), []domain.Aggregation{
		{Kind: domain.AggCount},
		{Kind: domain.AggSum, Field: "salary"},
		{Kind: domain.AggAvg, Field: "salary"},
		{Kind: domain.AggMin, Field: "salary"},
		{Kind: domain.AggMax, Field: "salary"},
	})
	s.NoError(err)
	s.Equal(map[string]any{
		"count":      int64(3),
		"sum_salary": float64(450),
		"avg_salary": float64(150),
		"min_salary": float64(100),
		"max_salary": float64(200),
	}, res)
}

func (s *AggregatorTestSuite) TestEmptyFolds() {
	// min, max and avg over an empty set yield nil, never a silent zero
	s.Run("NoElements", func() {
		res, err := s.aggregator.Aggregate(nil, []domain.Aggregation{
			{Kind: domain.AggCount},
			{Kind: domain.AggSum, Field: "salary"},
			{Kind: domain.AggAvg, Field: "salary"},
			{Kind: domain.AggMin, Field: "salary"},
			{Kind: domain.AggMax, Field: "salary"},
		})
		s.NoError(err)
		s.Equal(map[string]any{
			"count":      int64(0),
			"sum_salary": float64(0),
			"avg_salary": nil,
			"min_salary": nil,
			"max_salary": nil,
		}, res)
	})

	// Non-numeric and absent values are skipped from numeric folds
	s.Run("NonNumericValues", func() {
		elements := []any{
			map[string]any{"salary": "high"},
			map[string]any{"name": "no salary"},
			map[string]any{"salary": float64(50)},
			"scalar",
		}
		res, err := s.aggregator.Aggregate(elements, []domain.Aggregation{
			{Kind: domain.AggAvg, Field: "salary"},
		})
		s.NoError(err)
		s.Equal(map[string]any{"avg_salary": float64(50)}, res)
	})
}

func (s *AggregatorTestSuite) TestGroup() {
	res, err := s.aggregator.Aggregate(s.elements(), []domain.Aggregation{
		{Kind: domain.AggGroup, GroupBy: "dept"},
	})
	s.NoError(err)

	groups, ok := res["group_dept"].(map[string][]any)
	s.True(ok)
	s.Len(groups, 2)
	// members keep their element order inside each group
	s.Equal([]any{
		map[string]any{"id": float64(1), "dept": "A", "salary": float64(100)},
		map[string]any{"id": float64(3), "dept": "A", "salary": float64(150)},
	}, groups["A"])
	s.Equal([]any{
		map[string]any{"id": float64(2), "dept": "B", "salary": float64(200)},
	}, groups["B"])
}

func (s *AggregatorTestSuite) TestAliases() {
	res, err := s.aggregator.Aggregate(s.elements(), []domain.Aggregation{
		{Kind: domain.AggSum, Field: "salary", Alias: "total"},
	})
	s.NoError(err)
	s.Equal(map[string]any{"total": float64(450)}, res)
}

func (s *AggregatorTestSuite) TestInvalidAggregations() {
	_, err := s.aggregator.Aggregate(nil, []domain.Aggregation{
		{Kind: domain.AggSum},
	})
	s.ErrorIs(err, domain.ErrConfiguration)

	_, err = s.aggregator.Aggregate(nil, []domain.Aggregation{
		{Kind: domain.AggGroup},
	})
	s.ErrorIs(err, domain.ErrConfiguration)

	_, err = s.aggregator.Aggregate(nil, []domain.Aggregation{
		{Kind: domain.AggregationKind("median"), Field: "salary"},
	})
	s.ErrorIs(err, domain.ErrConfiguration)
}

func TestAggregatorTestSuite(t *testing.T) {
	suite.Run(t, new(AggregatorTestSuite))
}
