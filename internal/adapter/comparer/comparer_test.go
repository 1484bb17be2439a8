package comparer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/pathdb/domain"
)

type ComparerTestSuite struct {
	suite.Suite
	comparer domain.Comparer
}

func (s *ComparerTestSuite) SetupSuite() {
	s.comparer = NewComparer()
}

func (s *ComparerTestSuite) compare(a, b any) int {
	comp, err := s.comparer.Compare(a, b)
	s.NoError(err)
	return comp
}

func (s *ComparerTestSuite) TestScalars() {
	s.Run("Nil", func() {
		s.Equal(0, s.compare(nil, nil))
		s.Equal(-1, s.compare(nil, float64(0)))
		s.Equal(1, s.compare("", nil))
	})

	// Mixed numeric widths compare by value, not representation
	s.Run("Numbers", func() {
		s.Equal(0, s.compare(float64(3), int64(3)))
		s.Equal(-1, s.compare(float64(2), float64(3)))
		s.Equal(1, s.compare(uint64(10), float64(9.5)))
	})

	s.Run("Strings", func() {
		s.Equal(0, s.compare("a", "a"))
		s.Equal(-1, s.compare("a", "b"))
	})

	s.Run("Booleans", func() {
		s.Equal(0, s.compare(true, true))
		s.Equal(-1, s.compare(false, true))
		s.Equal(1, s.compare(true, false))
	})

	s.Run("Times", func() {
		earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		later := earlier.Add(time.Hour)
		s.Equal(0, s.compare(earlier, earlier))
		s.Equal(-1, s.compare(earlier, later))
	})
}

// Type ranks are, ascending: nil, numbers, strings, booleans, times, arrays,
// objects.
func (s *ComparerTestSuite) TestTypeRanks() {
	s.Equal(-1, s.compare(float64(99), "a"))
	s.Equal(-1, s.compare("z", false))
	s.Equal(-1, s.compare(true, time.Now()))
	s.Equal(-1, s.compare(time.Now(), []any{}))
	s.Equal(-1, s.compare([]any{"z"}, map[string]any{}))
	s.Equal(1, s.compare(map[string]any{}, "a"))
}

func (s *ComparerTestSuite) TestArrays() {
	s.Equal(0, s.compare([]any{float64(1), "a"}, []any{float64(1), "a"}))
	s.Equal(-1, s.compare([]any{float64(1)}, []any{float64(2)}))

	// An identical common section lets the longer array win
	s.Equal(-1, s.compare([]any{float64(1)}, []any{float64(1), float64(2)}))
}

func (s *ComparerTestSuite) TestObjects() {
	s.Equal(0, s.compare(
		map[string]any{"a": float64(1), "b": "x"},
		map[string]any{"a": float64(1), "b": "x"},
	))
	s.Equal(-1, s.compare(
		map[string]any{"a": float64(1)},
		map[string]any{"a": float64(2)},
	))
	// Same values, more keys wins
	s.Equal(-1, s.compare(
		map[string]any{"a": float64(1)},
		map[string]any{"a": float64(1), "b": float64(1)},
	))
}

func (s *ComparerTestSuite) TestUnsupportedTypes() {
	_, err := s.comparer.Compare(struct{}{}, struct{}{})
	s.Error(err)
}

func TestComparerTestSuite(t *testing.T) {
	suite.Run(t, new(ComparerTestSuite))
}
