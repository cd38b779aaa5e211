package aggregate

import (
	"fmt"
	"sort"
)

// Matrix is a dense view of a two-key table: X along columns, Y along rows.
type Matrix struct {
	X      []string `json:"x"`
	Y      []string `json:"y"`
	Cells  [][]int  `json:"cells"`
	Max    int      `json:"max"`
	Total  int      `json:"total"`
	XLabel string   `json:"x_label"`
	YLabel string   `json:"y_label"`
}

// NewMatrix spreads t over a grid indexed by its two key columns. Missing pairs
// are zero.
func NewMatrix(t Table) (Matrix, error) {
	if len(t.Dimensions) != 2 {
		return Matrix{}, fmt.Errorf("matrix needs a two-dimensional table, got %d dimensions", len(t.Dimensions))
	}

	xs := distinct(t, 0)
	ys := distinct(t, 1)
	xi := indexOf(xs)
	yi := indexOf(ys)

	m := Matrix{
		X:      xs,
		Y:      ys,
		Cells:  make([][]int, len(ys)),
		XLabel: t.Dimensions[0].Label(),
		YLabel: t.Dimensions[1].Label(),
	}
	for i := range m.Cells {
		m.Cells[i] = make([]int, len(xs))
	}

	for _, r := range t.Rows {
		c := r.Count
		m.Cells[yi[r.Keys[1]]][xi[r.Keys[0]]] += c
		m.Total += c
		if v := m.Cells[yi[r.Keys[1]]][xi[r.Keys[0]]]; v > m.Max {
			m.Max = v
		}
	}
	return m, nil
}

// At returns the count at column x, row y.
func (m Matrix) At(x, y int) int {
	return m.Cells[y][x]
}

func distinct(t Table, col int) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range t.Rows {
		k := r.Keys[col]
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func indexOf(values []string) map[string]int {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return idx
}
