package stats

import (
	"math"

	"github.com/verasim/verasim/internal/domain/booklet"
	"github.com/verasim/verasim/internal/domain/generate"
)

const roundDecimals = 1e4

// round4 rounds to four decimals, the precision reported everywhere.
func round4(v float64) float64 {
	return math.Round(v*roundDecimals) / roundDecimals
}

// mean returns the arithmetic mean, 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd returns the sample standard deviation (n-1 denominator),
// 0 when fewer than two values exist.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// columnStatistics computes the descriptive statistics of one binary
// response column.
func columnStatistics(column []int) DescriptiveStatistics {
	frequency := 0
	values := make([]float64, len(column))
	for i, v := range column {
		frequency += v
		values[i] = float64(v)
	}
	return DescriptiveStatistics{
		Total:             len(column),
		Frequency:         frequency,
		Mean:              round4(mean(values)),
		StandardDeviation: round4(sampleStd(values)),
	}
}

// columnIndex maps item ids to their column position in the response
// matrix (numeric item order).
func columnIndex(b *booklet.Booklet) map[string]int {
	index := make(map[string]int, b.ItemCount())
	for i, item := range b.SortedItems() {
		index[item.ID] = i
	}
	return index
}

// rowSum returns one student's raw score over the given columns.
func rowSum(row []int, cols []int) int {
	sum := 0
	for _, c := range cols {
		sum += row[c]
	}
	return sum
}

// rowMean returns one student's mean score over the given columns.
func rowMean(row []int, cols []int) float64 {
	if len(cols) == 0 {
		return 0
	}
	return float64(rowSum(row, cols)) / float64(len(cols))
}

// itemColumns resolves the matrix columns for a set of items.
func itemColumns(items []booklet.Item, index map[string]int) []int {
	cols := make([]int, len(items))
	for i, item := range items {
		cols[i] = index[item.ID]
	}
	return cols
}

// pooledColumn concatenates one item's response column across groups.
func pooledColumn(groups []*generate.GroupData, itemIndex int) []int {
	var column []int
	for _, g := range groups {
		column = append(column, g.Column(itemIndex)...)
	}
	return column
}
