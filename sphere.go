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

// SphereMesh is a one-dimensional radial discretization of a sphere.
// Node 0 is the center and node N-1 is on the outer surface.
type SphereMesh struct {
	radius float64 // µm
	n      int
	dr     float64 // m
	class  classes
}

// NewSphereMesh returns a sphere of the given radius [µm] discretized
// with n radial nodes.
func NewSphereMesh(radius float64, n int) (*SphereMesh, error) {
	if err := checkNodes(Sphere, "radius", radius, n); err != nil {
		return nil, err
	}
	m := &SphereMesh{
		radius: radius,
		n:      n,
		dr:     spacing(radius, n),
		class:  newClasses(n),
	}
	m.class.Set(center, 0)
	m.class.Set(boundary, n-1)
	return m, nil
}

func (m *SphereMesh) Geometry() Geometry { return Sphere }
func (m *SphereMesh) Size() int { return m.n }
func (m *SphereMesh) Shape() []int { return []int{m.n} }
func (m *SphereMesh) Dims() []string { return []string{"r"} }
func (m *SphereMesh) Spacing() []float64 { return []float64{m.dr} }
func (m *SphereMesh) IsOnBoundary(i int) bool { return m.class.isOnBoundary(i) }
func (m *SphereMesh) IsOnCenter(i int) bool { return m.class.isOnCenter(i) }
func (m *SphereMesh) Radius(i int) float64 { return float64(i) * m.dr }

// Slices returns a single slice holding every node from the center out
// to the surface.
func (m *SphereMesh) Slices() []Slice {
	return []Slice{{
		Nodes:    seq(0, m.n, 1),
		Axis:     radialAxis,
		Distance: positions(m.radius, m.n),
	}}
}

// Laplacian returns the discrete Laplacian in spherical symmetry:
//  ∇²T = ∂²T/∂r² + (2/r) ∂T/∂r.
// At the center the 2/r term is replaced by its limit, giving 6(T₁-T₀)/dr².
func (m *SphereMesh) Laplacian(f []float64, i int) float64 {
	if m.class.isOnBoundary(i) {
		panic(&BoundaryError{Geometry: Sphere, Index: i})
	}
	dr2 := m.dr * m.dr
	if i == 0 {
		return 6 * (f[1] - f[0]) / dr2
	}
	return (f[i+1]-2*f[i]+f[i-1])/dr2 + (2/(float64(i)*dr2))*(f[i+1]-f[i])
}

// seq returns the integers start, start+step, ... that are < end.
func seq(start, end, step int) []int {
	o := make([]int, 0, (end-start+step-1)/step)
	for i := start; i < end; i += step {
		o = append(o, i)
	}
	return o
}
