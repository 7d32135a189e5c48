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

// CuboidMesh is a three-dimensional Cartesian discretization of a
// rectangular cuboid. Nodes are stored in row-major order:
// node = (i*ny + j)*nz + k.
type CuboidMesh struct {
	extents [3]float64 // µm
	n       [3]int
	d       [3]float64 // m
	stride  [3]int
	class   classes
	dims    []string
}

// NewCuboidMesh returns a cuboid with the given x, y, and z extents [µm]
// discretized with the given number of nodes along each axis.
func NewCuboidMesh(extents [3]float64, nodes [3]int) (*CuboidMesh, error) {
	m := &CuboidMesh{
		extents: extents,
		n:       nodes,
		dims:    []string{"x", "y", "z"},
	}
	for a := 0; a < 3; a++ {
		if err := checkNodes(Cuboid, m.dims[a], extents[a], nodes[a]); err != nil {
			return nil, err
		}
		m.d[a] = spacing(extents[a], nodes[a])
	}
	m.stride = [3]int{nodes[1] * nodes[2], nodes[2], 1}
	m.class = newClasses(nodes[0], nodes[1], nodes[2])
	for i := 0; i < nodes[0]; i++ {
		for j := 0; j < nodes[1]; j++ {
			for k := 0; k < nodes[2]; k++ {
				if i == 0 || j == 0 || k == 0 ||
					i == nodes[0]-1 || j == nodes[1]-1 || k == nodes[2]-1 {
					m.class.Set(boundary, i, j, k)
				}
			}
		}
	}
	return m, nil
}

func (m *CuboidMesh) Geometry() Geometry { return Cuboid }
func (m *CuboidMesh) Size() int { return m.n[0] * m.n[1] * m.n[2] }
func (m *CuboidMesh) Shape() []int { return []int{m.n[0], m.n[1], m.n[2]} }
func (m *CuboidMesh) Dims() []string { return m.dims }
func (m *CuboidMesh) Spacing() []float64 { return []float64{m.d[0], m.d[1], m.d[2]} }
func (m *CuboidMesh) IsOnBoundary(i int) bool { return m.class.isOnBoundary(i) }

// IsOnCenter always returns false; a cuboid has no singular axis.
func (m *CuboidMesh) IsOnCenter(i int) bool { return false }

// Slices returns one slice per (x, y) position, each holding the nodes
// of the line running from the bottom to the top face.
func (m *CuboidMesh) Slices() []Slice {
	x := positions(m.extents[0], m.n[0])
	y := positions(m.extents[1], m.n[1])
	z := positions(m.extents[2], m.n[2])
	s := make([]Slice, 0, m.n[0]*m.n[1])
	for i := 0; i < m.n[0]; i++ {
		for j := 0; j < m.n[1]; j++ {
			start := i*m.stride[0] + j*m.stride[1]
			s = append(s, Slice{
				Name:     "x=" + metres(x[i]) + ",y=" + metres(y[j]),
				Nodes:    seq(start, start+m.n[2], 1),
				Axis:     zAxis,
				Distance: z,
			})
		}
	}
	return s
}

// Laplacian returns the sum of the second differences along each axis.
func (m *CuboidMesh) Laplacian(f []float64, n int) float64 {
	if m.class.isOnBoundary(n) {
		panic(&BoundaryError{Geometry: Cuboid, Index: n})
	}
	var l float64
	for a, s := range m.stride {
		l += (f[n+s] - 2*f[n] + f[n-s]) / (m.d[a] * m.d[a])
	}
	return l
}
