package utils

import (
	"fmt"
	"strconv"
	"strings"
)

/*
IndexRange is the loop bound threaded through every per point loop of the fault solver.
A host (vectorized) pass covers a whole face with {0, NumPoints, 1}, a fine grained worker
covers a single point with {p, p+1, 1}. The same formula body serves both.
*/
type IndexRange struct {
	Start, End, Step int
}

func NewIndexRange(start, end int) IndexRange {
	return IndexRange{Start: start, End: end, Step: 1}
}

// PointRange is the range of a single point, used by one-point-per-worker execution
func PointRange(point int) IndexRange {
	return IndexRange{Start: point, End: point + 1, Step: 1}
}

// Len is the number of indices visited by the range
func (r IndexRange) Len() int {
	if r.Step <= 0 || r.End <= r.Start {
		return 0
	}
	return (r.End - r.Start + r.Step - 1) / r.Step
}

// Contains reports whether index i is visited by the range
func (r IndexRange) Contains(i int) bool {
	if r.Step <= 0 || i < r.Start || i >= r.End {
		return false
	}
	return (i-r.Start)%r.Step == 0
}

func (r IndexRange) Indices() (I []int) {
	I = make([]int, 0, r.Len())
	for i := r.Start; i < r.End; i += r.Step {
		I = append(I, i)
	}
	return
}

func (r IndexRange) String() string {
	return fmt.Sprintf("[%d:%d:%d]", r.Start, r.End, r.Step)
}

// ParseIndexRange converts a dimension phrase (see ParseDim) into a unit stride range
func ParseIndexRange(dimI interface{}, max int) (r IndexRange) {
	var (
		i1, i2 = ParseDim(dimI, max)
	)
	if i1 < 0 {
		i1 = 0
	}
	if i2 > max {
		i2 = max
	}
	return NewIndexRange(i1, i2)
}

func ParseDim(dimI interface{}, max int) (i1, i2 int) {
	/*
		Converts phrases including:
			":"   = full range, from 0 to max (loop indexing)
			"end" = last index, from max-1, max
			"N"   = single index, from N, N+1
		   	N     = single index, from N, N+1
		    "2:N" = range, from 2 to N (loop indexing)
		   	":N"  = range, from 0 to N (loop indexing)
		   	"N:"  = range, from N to max-1 (loop indexing)
	*/
	switch dim := dimI.(type) {
	case string:
		switch strings.TrimSpace(dim) {
		case "end":
			i1, i2 = max-1, max
		case ":", "":
			i1, i2 = 0, max
		default:
			i1, i2 = parseRange(strings.TrimSpace(dim), max)
		}
	case int:
		i1, i2 = dim, dim+1
	}
	return
}

func parseRange(dim string, max int) (i1, i2 int) {
	var (
		splits = strings.Split(dim, ":")
		err    error
	)
	if i1, err = strconv.Atoi(splits[0]); err != nil {
		i1 = 0
	}
	if len(splits) == 1 {
		i2 = i1 + 1
		return
	}
	if i2, err = strconv.Atoi(splits[1]); err != nil {
		i2 = max
	}
	if i2 == i1 {
		i2 = i1 + 1
	}
	return
}
