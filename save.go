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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Snapshot holds the state of every field of a simulation at one time.
type Snapshot struct {
	Geometry Geometry
	Step     int
	Phase    Phase

	TimestepsPerSecond int

	// Data holds the values of each field, keyed by field name and arranged
	// in the shape of the mesh.
	Data map[string]*sparse.DenseArray
}

// Save returns a function that saves the current values of every field in
// d to a NetCDF file.
func Save(w *os.File) DomainManipulator {
	return func(d *Simulation) error {
		h := cdf.NewHeader(d.Mesh.Dims(), d.Mesh.Shape())
		h.AddAttribute("", "comment", "kerogen simulation snapshot")
		h.AddAttribute("", "version", Version)
		h.AddAttribute("", "geometry", []int32{int32(d.Mesh.Geometry())})
		h.AddAttribute("", "step", []int32{int32(d.Step)})
		h.AddAttribute("", "phase", []int32{int32(d.Phase)})
		h.AddAttribute("", "timesteps_per_second", []int32{int32(d.TimestepsPerSecond)})
		h.AddAttribute("", "spacing", d.Mesh.Spacing())

		fields := d.Fields()
		for _, f := range fields {
			h.AddVariable(f.Name, d.Mesh.Dims(), []float64{0})
		}
		h.Define()

		ff, err := cdf.Create(w, h)
		if err != nil {
			return fmt.Errorf("kerogen: saving snapshot: %v", err)
		}
		for _, f := range fields {
			end := ff.Header.Lengths(f.Name)
			start := make([]int, len(end))
			if _, err := ff.Writer(f.Name, start, end).Write(f.Ci); err != nil {
				return fmt.Errorf("kerogen: writing variable %s to snapshot: %v", f.Name, err)
			}
		}
		if err := cdf.UpdateNumRecs(w); err != nil {
			return fmt.Errorf("kerogen: saving snapshot: %v", err)
		}
		return nil
	}
}

// LoadSnapshot reads a snapshot created by Save.
func LoadSnapshot(rw cdf.ReaderWriterAt) (*Snapshot, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("kerogen: loading snapshot: %v", err)
	}
	s := &Snapshot{
		Geometry:           Geometry(intAttribute(f, "geometry")),
		Step:               intAttribute(f, "step"),
		Phase:              Phase(intAttribute(f, "phase")),
		TimestepsPerSecond: intAttribute(f, "timesteps_per_second"),
		Data:               make(map[string]*sparse.DenseArray),
	}
	for _, v := range f.Header.Variables() {
		a := sparse.ZerosDense(f.Header.Lengths(v)...)
		if _, err := f.Reader(v, nil, nil).Read(a.Elements); err != nil {
			return nil, fmt.Errorf("kerogen: reading snapshot variable %s: %v", v, err)
		}
		s.Data[v] = a
	}
	return s, nil
}

func intAttribute(f *cdf.File, name string) int {
	v, ok := f.Header.GetAttribute("", name).([]int32)
	if !ok || len(v) == 0 {
		return 0
	}
	return int(v[0])
}

// Load returns a function that sets the fields of d to the values in s.
// It must be run after the fields have been created. Fields that are
// not present in s keep their values.
func Load(s *Snapshot) DomainManipulator {
	return func(d *Simulation) error {
		if s.Geometry != d.Mesh.Geometry() {
			return fmt.Errorf("kerogen: snapshot geometry %v does not match simulation geometry %v",
				s.Geometry, d.Mesh.Geometry())
		}
		if s.TimestepsPerSecond != d.TimestepsPerSecond {
			return fmt.Errorf("kerogen: snapshot has %d time steps per second but simulation has %d",
				s.TimestepsPerSecond, d.TimestepsPerSecond)
		}
		for _, f := range d.Fields() {
			a, ok := s.Data[f.Name]
			if !ok {
				continue
			}
			if len(a.Elements) != f.Size() {
				return fmt.Errorf("kerogen: snapshot variable %s has %d nodes but mesh has %d",
					f.Name, len(a.Elements), f.Size())
			}
			copy(f.Ci, a.Elements)
			copy(f.Cf, a.Elements)
		}
		d.Step = s.Step
		d.Phase = s.Phase
		d.Done = s.Phase == Terminated
		return nil
	}
}
