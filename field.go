/*
Copyright © 2019 the kerogen authors.
This file is part of kerogen.

kerogen is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

kerogen is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with kerogen.  If not, see <http://www.gnu.org/licenses/>.
*/

package kerogen

import (
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// equalityTolerance is the limit on the sum of squared differences
// below which two fields are considered equal.
const equalityTolerance = 1.e-12

// Field holds the values of one tracked quantity at every node of a mesh.
// Values are double buffered: Ci holds the values at the beginning of the
// time step and is not modified while a step is calculated, and Cf
// receives the values at the end of the time step. Swap exchanges the two
// buffers.
type Field struct {
	Name string
	Mesh Mesh

	Ci []float64 // values at beginning of time step
	Cf []float64 // values at end of time step

	out []*destination // output files; nil until PrepareOutput is called
}

// NewField returns a zero-valued field on m.
func NewField(name string, m Mesh) *Field {
	return &Field{
		Name: name,
		Mesh: m,
		Ci:   make([]float64, m.Size()),
		Cf:   make([]float64, m.Size()),
	}
}

// At returns the current value at node i.
func (f *Field) At(i int) float64 { return f.Ci[i] }

// Set sets the current value at node i.
func (f *Field) Set(i int, v float64) { f.Ci[i] = v }

// Size returns the number of nodes.
func (f *Field) Size() int { return len(f.Ci) }

// IsOnBoundary returns whether node i is on the outer surface.
func (f *Field) IsOnBoundary(i int) bool { return f.Mesh.IsOnBoundary(i) }

// IsOnCenter returns whether node i is on the symmetry axis or point.
func (f *Field) IsOnCenter(i int) bool { return f.Mesh.IsOnCenter(i) }

// Laplacian returns the discrete Laplacian of the current values at node
// i. It panics if i is on the boundary.
func (f *Field) Laplacian(i int) float64 { return f.Mesh.Laplacian(f.Ci, i) }

// Fill sets every node in both buffers to v.
func (f *Field) Fill(v float64) {
	for i := range f.Ci {
		f.Ci[i] = v
		f.Cf[i] = v
	}
}

// Swap makes the end-of-step values the current values. The previous
// values remain in Cf until they are overwritten during the next step.
func (f *Field) Swap() {
	f.Ci, f.Cf = f.Cf, f.Ci
}

// NearlyEqual returns true if the sum of squared differences between the
// current values of f and o is less than 1e-12.
func (f *Field) NearlyEqual(o *Field) bool {
	return nearlyEqual(f.Ci, o.Ci)
}

// Settled returns whether the current values are nearly equal to the values
// from the previous step. It is only meaningful directly after Swap.
func (f *Field) Settled() bool {
	return nearlyEqual(f.Ci, f.Cf)
}

func nearlyEqual(a, b []float64) bool {
	d := make([]float64, len(a))
	floats.SubTo(d, a, b)
	return floats.Dot(d, d) < equalityTolerance
}

// HasInvalidValue returns whether any current value is NaN.
func (f *Field) HasInvalidValue() bool {
	return floats.HasNaN(f.Ci)
}

// Clone returns a deep copy of f, without any output bindings.
func (f *Field) Clone() *Field {
	c := &Field{
		Name: f.Name,
		Mesh: f.Mesh,
		Ci:   make([]float64, len(f.Ci)),
		Cf:   make([]float64, len(f.Cf)),
	}
	copy(c.Ci, f.Ci)
	copy(c.Cf, f.Cf)
	return c
}

// Sum returns the sum of the current values.
func (f *Field) Sum() float64 { return floats.Sum(f.Ci) }

// Mean returns the average of the current values.
func (f *Field) Mean() float64 {
	return f.Sum() / float64(len(f.Ci))
}

// Max returns the largest current value.
func (f *Field) Max() float64 {
	return floats.Max(f.Ci)
}

// Array returns a copy of the current values arranged in the shape
// of the mesh.
func (f *Field) Array() *sparse.DenseArray {
	a := sparse.ZerosDense(f.Mesh.Shape()...)
	copy(a.Elements, f.Ci)
	return a
}
