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
	"math"
	"testing"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance || math.IsNaN(a) || math.IsNaN(b)
}

// stepLimit returns a function that stops a runaway simulation.
func stepLimit(n int) DomainManipulator {
	return func(d *Simulation) error {
		if d.Step > n {
			return fmt.Errorf("simulation did not finish within %d steps", n)
		}
		return nil
	}
}

// testConfig returns a small cuboid simulation with fixed properties and
// no heating.
func testConfig() *Config {
	return &Config{
		Geometry:           Cuboid,
		CuboidExtents:      [3]float64{10, 10, 10},
		CuboidNodes:        [3]int{3, 3, 3},
		HeatingTime:        10,
		TimestepsPerSecond: 10,
		InitialTemperature: 20,
		MaxTemperature:     500,
		Conductivity:       Property{Fixed: true, Value: 2},
		HeatCapacity:       Property{Fixed: true, Value: 1000},
		RockDensity:        2500,
		KerogenDensity:     1200,
		TOC:                10,
	}
}

func testSpecies() []*Species {
	return []*Species{
		NewSpecies("Type1", 1e13, 200000, 50, -500000, 0.3),
		NewSpecies("Type2", 2e13, 220000, 50, -450000, 0.25),
	}
}

func TestUniformFieldIsConserved(t *testing.T) {
	c := testConfig()
	d := &Simulation{
		InitFuncs: []DomainManipulator{c.Initialize(nil)},
		RunFuncs:  append(c.DefaultRunFuncs(nil, nil), stepLimit(1000)),
	}
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if err := d.Run(); err != nil {
		t.Fatal(err)
	}
	if d.Step != 100 {
		t.Errorf("have %d steps, want 100", d.Step)
	}
	if d.Phase != Terminated || !d.Done {
		t.Errorf("phase is %v, done is %v", d.Phase, d.Done)
	}
	for i, v := range d.Temperature.Ci {
		if v != 293.15 {
			t.Errorf("node %d: have %g K, want 293.15 K", i, v)
		}
	}
}

func TestUniformFieldIsConservedAllGeometries(t *testing.T) {
	for _, g := range []Geometry{Sphere, Cylinder, Cuboid} {
		t.Run(g.String(), func(t *testing.T) {
			c := testConfig()
			c.Geometry = g
			c.SphereRadius, c.SphereNodes = 1000, 6
			c.CylinderRadius, c.CylinderHeight = 1000, 1000
			c.CylinderRadialNodes, c.CylinderAxialNodes = 4, 5
			c.Conductivity.Fixed = false
			c.HeatCapacity.Fixed = false
			d := &Simulation{
				InitFuncs: []DomainManipulator{c.Initialize(nil)},
				RunFuncs:  append(c.DefaultRunFuncs(nil, nil), stepLimit(1000)),
			}
			if err := d.Init(); err != nil {
				t.Fatal(err)
			}
			want := d.Temperature.Clone()
			if err := d.Run(); err != nil {
				t.Fatal(err)
			}
			for i, v := range d.Temperature.Ci {
				if v != want.Ci[i] {
					t.Errorf("node %d: have %g K, want %g K", i, v, want.Ci[i])
				}
			}
		})
	}
}
