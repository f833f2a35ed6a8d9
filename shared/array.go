package shared

import (
	"fmt"
	"sync"
)

// Array is a fixed-size, row-major float64 array safe for concurrent use.
// Individual reads and writes are atomic; use [Array.Update] or an external
// [Lock] for compound operations spanning several calls.
type Array struct {
	mu      sync.RWMutex
	shape   []int
	strides []int
	data    []float64
}

// NewArray returns a zero-filled array of the given shape. A call without
// dimensions creates a scalar holding one element. Panics on a negative
// dimension.
func NewArray(shape ...int) *Array {
	size := 1
	strides := make([]int, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] < 0 {
			panic(fmt.Sprintf("shared: negative array dimension %d", shape[i]))
		}
		strides[i] = size
		size *= shape[i]
	}
	return &Array{
		shape:   append([]int(nil), shape...),
		strides: strides,
		data:    make([]float64, size),
	}
}

// Shape returns a copy of the array's dimensions.
func (a *Array) Shape() []int {
	return append([]int(nil), a.shape...)
}

// Len returns the total number of elements.
func (a *Array) Len() int {
	return len(a.data)
}

// At returns the element at idx.
func (a *Array) At(idx ...int) float64 {
	off := a.offset(idx)
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data[off]
}

// Set stores v at idx.
func (a *Array) Set(v float64, idx ...int) {
	off := a.offset(idx)
	a.mu.Lock()
	a.data[off] = v
	a.mu.Unlock()
}

// Add adds delta to the element at idx and returns the new value.
func (a *Array) Add(delta float64, idx ...int) float64 {
	off := a.offset(idx)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data[off] += delta
	return a.data[off]
}

// Fill sets every element to v.
func (a *Array) Fill(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.data {
		a.data[i] = v
	}
}

// Sum returns the sum of all elements.
func (a *Array) Sum() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var s float64
	for _, v := range a.data {
		s += v
	}
	return s
}

// Snapshot returns a copy of the flat, row-major contents.
func (a *Array) Snapshot() []float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]float64(nil), a.data...)
}

// Update runs fn with exclusive access to the flat, row-major contents.
// fn must not retain data.
func (a *Array) Update(fn func(data []float64)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.data)
}

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("shared: array of rank %d indexed with %d indices", len(a.shape), len(idx)))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= a.shape[i] {
			panic(fmt.Sprintf("shared: index %d out of range [0:%d] in dimension %d", x, a.shape[i], i))
		}
		off += x * a.strides[i]
	}
	return off
}
