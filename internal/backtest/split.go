package backtest

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Dated is anything that happened on a calendar date
type Dated interface {
	GameDate() time.Time
}

// SortByDate returns a copy of items in ascending date order. Equal dates
// keep their input order.
func SortByDate[T Dated](items []T) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GameDate().Before(sorted[j].GameDate())
	})
	return sorted
}

// Split partitions items chronologically: the earliest floor(len*trainFraction)
// items train, the rest test. Items are never shuffled or stratified.
func Split[T Dated](items []T, trainFraction float64) ([]T, []T, error) {
	if trainFraction <= 0 || trainFraction >= 1 || math.IsNaN(trainFraction) {
		return nil, nil, fmt.Errorf("train fraction must be between 0 and 1 exclusive, got %v", trainFraction)
	}
	sorted := SortByDate(items)
	cut := int(math.Floor(float64(len(sorted)) * trainFraction))
	return sorted[:cut:cut], sorted[cut:], nil
}
