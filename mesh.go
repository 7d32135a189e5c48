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
	"fmt"
	"strconv"

	"github.com/ctessum/sparse"
)

// Geometry specifies the shape of the simulated body.
type Geometry int

// These are the supported geometries. The values match the numbers used
// to select them in configuration files.
const (
	Sphere   Geometry = 1
	Cylinder Geometry = 2
	Cuboid   Geometry = 3
)

func (g Geometry) String() string {
	switch g {
	case Sphere:
		return "sphere"
	case Cylinder:
		return "cylinder"
	case Cuboid:
		return "cuboid"
	default:
		return fmt.Sprintf("Geometry(%d)", int(g))
	}
}

// Node classifications. Every node is either interior or on the boundary;
// center nodes are the interior nodes on a symmetry axis or point.
const (
	interior = iota
	boundary
	center
)

// Mesh is a finite-difference discretization of a body. Nodes are
// addressed by a single index in [0, Size()).
type Mesh interface {
	Geometry() Geometry

	// Size returns the number of nodes.
	Size() int

	// Shape returns the number of nodes along each dimension, in
	// row-major order.
	Shape() []int

	// Dims returns the names of the dimensions in Shape.
	Dims() []string

	// Spacing returns the node spacing [m] along each dimension.
	Spacing() []float64

	IsOnBoundary(i int) bool
	IsOnCenter(i int) bool

	// Laplacian returns the discrete Laplacian of the field f at node i.
	// It panics with a *BoundaryError if i is on the boundary.
	Laplacian(f []float64, i int) float64

	// Slices returns the groups of nodes that are written to separate
	// output destinations.
	Slices() []Slice
}

// Slice is a fixed group of mesh nodes along one line of the body that
// is written as one output row.
type Slice struct {
	// Name identifies the slice by the position of its line, for example
	// "z=0.0005m". It is empty for meshes that are written as a single
	// slice.
	Name string

	// Nodes are the node indices in output order.
	Nodes []int

	// Axis describes the direction along which Nodes run.
	Axis string

	// Distance holds the position [µm] of each node along Axis.
	Distance []float64
}

// Axis descriptions for output file headers.
const (
	radialAxis = "Distance from centre (microns)"
	zAxis      = "Distance along z-axis (microns)"
)

// positions returns the n node positions [µm] across extent [µm].
func positions(extent float64, n int) []float64 {
	o := make([]float64, n)
	for i := range o {
		o[i] = extent * float64(i) / float64(n-1)
	}
	return o
}

// metres formats a position in µm as a number of metres for slice names.
func metres(micron float64) string {
	return strconv.FormatFloat(micron/1e6, 'g', 6, 64) + "m"
}

// BoundaryError is the panic value used when the Laplacian is requested
// on a boundary node, where it is not defined.
type BoundaryError struct {
	Geometry Geometry
	Index    int
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("kerogen: Laplacian requested on %v boundary node %d", e.Geometry, e.Index)
}

// classes holds the classification of each node of a mesh.
type classes struct {
	*sparse.DenseArrayInt
}

func newClasses(shape ...int) classes {
	return classes{sparse.ZerosDenseInt(shape...)}
}

func (c classes) isOnBoundary(i int) bool { return c.Elements[i] == boundary }
func (c classes) isOnCenter(i int) bool   { return c.Elements[i] == center }

// spacing returns the distance [m] between nodes when n nodes span
// extent [µm].
func spacing(extent float64, n int) float64 {
	return extent / (1e6 * float64(n-1))
}

// checkNodes makes sure that a dimension has a valid extent and node count.
func checkNodes(g Geometry, name string, extent float64, n int) error {
	if n < 2 {
		return fmt.Errorf("kerogen: %v %s needs at least 2 nodes but has %d", g, name, n)
	}
	if !(extent > 0) {
		return fmt.Errorf("kerogen: %v %s extent must be > 0 but is %g", g, name, extent)
	}
	return nil
}
