package assignment

import (
	"math"
	"slices"
)

// zeroTolerance decides when a reduced cost counts as zero.
const zeroTolerance = 1e-9

// Pair is one (row, column) assignment.
type Pair struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Solve returns min(rows, cols) pairs that minimize the summed cost, with at
// most one pair per row and per column, ordered by row. An empty matrix or a
// matrix with zero columns yields nil. The matrix must be rectangular.
//
// Wide and tall inputs are handled by transposing so that rows never exceed
// columns and then padding whole dummy rows with zero. Every complete matching
// of the square matrix pays the same padding cost, so the padding can never
// change which real pairs are optimal.
func Solve(cost [][]float64) []Pair {
	rows := len(cost)
	if rows == 0 || len(cost[0]) == 0 {
		return nil
	}
	cols := len(cost[0])
	for _, row := range cost {
		if len(row) != cols {
			panic("assignment: cost matrix is not rectangular")
		}
	}

	transposed := rows > cols
	if transposed {
		rows, cols = cols, rows
	}

	s := newSolver(cost, rows, cols, transposed)
	s.reduce()
	s.starGreedy()
	s.run()

	pairs := make([]Pair, 0, rows)
	for r := 0; r < rows; r++ {
		c := s.starInRow[r]
		if c < 0 {
			continue
		}
		if transposed {
			pairs = append(pairs, Pair{Row: c, Col: r})
		} else {
			pairs = append(pairs, Pair{Row: r, Col: c})
		}
	}
	slices.SortFunc(pairs, func(a, b Pair) int { return a.Row - b.Row })
	return pairs
}

// solver holds the square working matrix plus the star, prime and cover
// bookkeeping, all indexed by position.
type solver struct {
	size       int
	c          [][]float64
	starInRow  []int
	starInCol  []int
	primeInRow []int
	rowCovered []bool
	colCovered []bool
}

func newSolver(cost [][]float64, rows, cols int, transposed bool) *solver {
	size := cols
	c := make([][]float64, size)
	for r := range c {
		c[r] = make([]float64, size)
		if r >= rows {
			continue
		}
		for col := 0; col < cols; col++ {
			if transposed {
				c[r][col] = cost[col][r]
			} else {
				c[r][col] = cost[r][col]
			}
		}
	}
	s := &solver{
		size:       size,
		c:          c,
		starInRow:  filled(size, -1),
		starInCol:  filled(size, -1),
		primeInRow: filled(size, -1),
		rowCovered: make([]bool, size),
		colCovered: make([]bool, size),
	}
	return s
}

func filled(n, value int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func isZero(v float64) bool {
	return math.Abs(v) < zeroTolerance
}

func (s *solver) reduce() {
	for r := 0; r < s.size; r++ {
		m := slices.Min(s.c[r])
		for col := range s.c[r] {
			s.c[r][col] -= m
		}
	}
	for col := 0; col < s.size; col++ {
		m := math.Inf(1)
		for r := 0; r < s.size; r++ {
			m = math.Min(m, s.c[r][col])
		}
		for r := 0; r < s.size; r++ {
			s.c[r][col] -= m
		}
	}
}

func (s *solver) starGreedy() {
	for r := 0; r < s.size; r++ {
		for col := 0; col < s.size; col++ {
			if isZero(s.c[r][col]) && s.starInRow[r] < 0 && s.starInCol[col] < 0 {
				s.star(r, col)
			}
		}
	}
}

func (s *solver) star(r, col int) {
	s.starInRow[r] = col
	s.starInCol[col] = r
}

func (s *solver) run() {
	for {
		if s.coverStarredColumns() == s.size {
			return
		}
		if !s.primeUntilAugment() {
			return
		}
	}
}

func (s *solver) coverStarredColumns() int {
	covered := 0
	for col := 0; col < s.size; col++ {
		s.colCovered[col] = s.starInCol[col] >= 0
		if s.colCovered[col] {
			covered++
		}
	}
	return covered
}

// primeUntilAugment primes uncovered zeros, adjusting the matrix whenever none
// is left, until an augmenting path enlarges the set of starred zeros. It
// returns false only if the matrix has no uncovered cells left, which cannot
// happen for finite input.
func (s *solver) primeUntilAugment() bool {
	for {
		r, col, found := s.findUncoveredZero()
		if !found {
			m := s.minUncovered()
			if math.IsInf(m, 1) {
				return false
			}
			s.adjust(m)
			continue
		}

		s.primeInRow[r] = col
		if starred := s.starInRow[r]; starred >= 0 {
			s.rowCovered[r] = true
			s.colCovered[starred] = false
			continue
		}

		s.augment(r, col)
		s.clearCoversAndPrimes()
		return true
	}
}

func (s *solver) findUncoveredZero() (int, int, bool) {
	for r := 0; r < s.size; r++ {
		if s.rowCovered[r] {
			continue
		}
		for col := 0; col < s.size; col++ {
			if !s.colCovered[col] && isZero(s.c[r][col]) {
				return r, col, true
			}
		}
	}
	return -1, -1, false
}

func (s *solver) minUncovered() float64 {
	m := math.Inf(1)
	for r := 0; r < s.size; r++ {
		if s.rowCovered[r] {
			continue
		}
		for col := 0; col < s.size; col++ {
			if !s.colCovered[col] && s.c[r][col] < m {
				m = s.c[r][col]
			}
		}
	}
	return m
}

func (s *solver) adjust(m float64) {
	for r := 0; r < s.size; r++ {
		for col := 0; col < s.size; col++ {
			if s.rowCovered[r] {
				s.c[r][col] += m
			}
			if !s.colCovered[col] {
				s.c[r][col] -= m
			}
		}
	}
}

// augment flips stars along the alternating path that starts at the primed
// zero (r, col): primes become stars and stars on the path are removed.
func (s *solver) augment(r, col int) {
	type cell struct{ r, c int }
	path := []cell{{r, col}}
	for {
		sr := s.starInCol[path[len(path)-1].c]
		if sr < 0 {
			break
		}
		pc := s.primeInRow[sr]
		path = append(path, cell{sr, path[len(path)-1].c}, cell{sr, pc})
	}
	for i := 1; i < len(path); i += 2 {
		p := path[i]
		s.starInRow[p.r] = -1
		s.starInCol[p.c] = -1
	}
	for i := 0; i < len(path); i += 2 {
		s.star(path[i].r, path[i].c)
	}
}

func (s *solver) clearCoversAndPrimes() {
	for i := 0; i < s.size; i++ {
		s.rowCovered[i] = false
		s.colCovered[i] = false
		s.primeInRow[i] = -1
	}
}
