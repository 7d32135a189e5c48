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

// CylinderMesh is an axisymmetric radial-axial discretization of a
// cylinder. Nodes are stored with the radial index i varying slowest:
// node = i*nz + j. Radial index 0 is the axis of symmetry.
type CylinderMesh struct {
	radius, height float64 // µm
	nr, nz         int
	dr, dz         float64 // m
	class          classes
}

// NewCylinderMesh returns a cylinder of the given radius and height [µm]
// discretized with nr radial and nz axial nodes.
func NewCylinderMesh(radius, height float64, nr, nz int) (*CylinderMesh, error) {
	if err := checkNodes(Cylinder, "radius", radius, nr); err != nil {
		return nil, err
	}
	if err := checkNodes(Cylinder, "height", height, nz); err != nil {
		return nil, err
	}
	m := &CylinderMesh{
		radius: radius,
		height: height,
		nr:     nr,
		nz:     nz,
		dr:     spacing(radius, nr),
		dz:     spacing(height, nz),
		class:  newClasses(nr, nz),
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nz; j++ {
			switch {
			case i == nr-1 || j == 0 || j == nz-1:
				m.class.Set(boundary, i, j)
			case i == 0:
				m.class.Set(center, i, j)
			}
		}
	}
	return m, nil
}

func (m *CylinderMesh) Geometry() Geometry { return Cylinder }
func (m *CylinderMesh) Size() int { return m.nr * m.nz }
func (m *CylinderMesh) Shape() []int { return []int{m.nr, m.nz} }
func (m *CylinderMesh) Dims() []string { return []string{"r", "z"} }
func (m *CylinderMesh) Spacing() []float64 { return []float64{m.dr, m.dz} }
func (m *CylinderMesh) IsOnBoundary(i int) bool { return m.class.isOnBoundary(i) }
func (m *CylinderMesh) IsOnCenter(i int) bool { return m.class.isOnCenter(i) }

// Slices returns one slice per axial position, each holding the nodes
// from the axis out to the curved surface.
func (m *CylinderMesh) Slices() []Slice {
	r := positions(m.radius, m.nr)
	z := positions(m.height, m.nz)
	s := make([]Slice, m.nz)
	for j := range s {
		s[j] = Slice{
			Name:     "z=" + metres(z[j]),
			Nodes:    seq(j, m.Size(), m.nz),
			Axis:     radialAxis,
			Distance: r,
		}
	}
	return s
}

// Laplacian returns the discrete Laplacian in axial symmetry:
//  ∇²T = ∂²T/∂r² + (1/r) ∂T/∂r + ∂²T/∂z².
// On the axis the radial terms are replaced by their limit, 4(T₁-T₀)/dr².
func (m *CylinderMesh) Laplacian(f []float64, n int) float64 {
	if m.class.isOnBoundary(n) {
		panic(&BoundaryError{Geometry: Cylinder, Index: n})
	}
	i := n / m.nz
	dr2 := m.dr * m.dr
	dz2 := m.dz * m.dz
	out, in := n+m.nz, n-m.nz // radial neighbors

	var radial float64
	if i == 0 {
		radial = 4 * (f[out] - f[n]) / dr2
	} else {
		radial = (f[out]-2*f[n]+f[in])/dr2 + (f[out]-f[n])/(float64(i)*dr2)
	}
	axial := (f[n+1] - 2*f[n] + f[n-1]) / dz2
	return radial + axial
}
