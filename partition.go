package omp

import (
	"fmt"
	"iter"
	"math"
)

// Range is the half-open arithmetic sequence start, start+step, ... that
// stops before reaching stop. A negative step counts down.
type Range struct {
	Start, Stop, Step int
}

// NewRange returns the sequence [start, stop) with the given step.
// Panics if step is zero or the sequence has more than math.MaxInt elements.
func NewRange(start, stop, step int) Range {
	if step == 0 {
		panic("omp: range step must not be zero")
	}
	r := Range{Start: start, Stop: stop, Step: step}
	if r.count() > math.MaxInt {
		panic(fmt.Sprintf("omp: %v has more than %d elements", r, math.MaxInt))
	}
	return r
}

// Len returns the number of elements in r.
func (r Range) Len() int {
	return int(r.count())
}

// count works on the unsigned distance so that spans wider than MaxInt
// do not wrap.
func (r Range) count() uint {
	switch {
	case r.Step > 0 && r.Start < r.Stop:
		span := uint(r.Stop) - uint(r.Start)
		return (span-1)/uint(r.Step) + 1
	case r.Step < 0 && r.Start > r.Stop:
		span := uint(r.Start) - uint(r.Stop)
		return (span-1)/-uint(r.Step) + 1
	default:
		return 0
	}
}

// At returns the i-th element of r. Panics if i is out of range.
func (r Range) At(i int) int {
	if n := r.Len(); i < 0 || i >= n {
		panic(fmt.Sprintf("omp: range index %d out of range [0:%d]", i, n))
	}
	return r.Start + i*r.Step
}

// Slice returns the elements of r with offsets in [lo, hi) as a Range with
// the same step.
func (r Range) Slice(lo, hi int) Range {
	n := r.Len()
	if lo < 0 || hi < lo || hi > n {
		panic(fmt.Sprintf("omp: range slice [%d:%d] out of range [0:%d]", lo, hi, n))
	}
	// Offset n may lie past MaxInt or MinInt, so the tail keeps r.Stop.
	bound := func(k int) int {
		if k == n {
			return r.Stop
		}
		return r.Start + k*r.Step
	}
	return Range{Start: bound(lo), Stop: bound(hi), Step: r.Step}
}

// Values returns the elements of r.
func (r Range) Values() []int {
	n := r.Len()
	ret := make([]int, n)
	for i := range ret {
		ret[i] = r.Start + i*r.Step
	}
	return ret
}

// All iterates over the elements of r in order.
func (r Range) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		n := r.Len()
		for i := 0; i < n; i++ {
			if !yield(r.Start + i*r.Step) {
				return
			}
		}
	}
}

func (r Range) String() string {
	return fmt.Sprintf("range(%d, %d, %d)", r.Start, r.Stop, r.Step)
}

// Bounds returns the offsets [lo, hi) of the contiguous block worker i owns
// when total elements are split statically across n workers. The first
// total%n workers get one element more than the rest.
//
// Panics if n <= 0, i is outside [0, n) or total is negative.
func Bounds(total, n, i int) (lo, hi int) {
	if n <= 0 {
		panic("omp: Bounds requires n > 0")
	}
	if i < 0 || i >= n {
		panic(fmt.Sprintf("omp: worker index %d out of range [0:%d]", i, n))
	}
	if total < 0 {
		panic("omp: Bounds requires total >= 0")
	}
	base, rem := total/n, total%n
	lo = i*base + min(i, rem)
	hi = lo + base
	if i < rem {
		hi++
	}
	return lo, hi
}

// Partition returns the part of r owned by worker i of n under the static
// schedule described by [Bounds]. Concatenating the partitions of workers
// 0..n-1 yields r exactly.
func Partition(r Range, n, i int) Range {
	lo, hi := Bounds(r.Len(), n, i)
	return r.Slice(lo, hi)
}
