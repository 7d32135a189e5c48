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
)

// Config is a holder for the physical configuration of a simulation.
type Config struct {
	Geometry Geometry `toml:"geometry"`

	SphereRadius float64 `toml:"sphere_radius"` // µm
	SphereNodes  int     `toml:"sphere_nodes"`

	CylinderRadius      float64 `toml:"cylinder_radius"` // µm
	CylinderHeight      float64 `toml:"cylinder_height"` // µm
	CylinderRadialNodes int     `toml:"cylinder_radial_nodes"`
	CylinderAxialNodes  int     `toml:"cylinder_axial_nodes"`

	CuboidExtents [3]float64 `toml:"cuboid_extents"` // µm
	CuboidNodes   [3]int     `toml:"cuboid_nodes"`

	HeatingTime        float64 `toml:"heating_time"` // s
	TimestepsPerSecond int     `toml:"timesteps_per_second"`

	InitialTemperature  float64 `toml:"initial_temperature"` // °C
	MaxTemperature      float64 `toml:"max_temperature"`     // °C
	FixedMaxTemperature bool    `toml:"fixed_max_temperature"`
	HeatingRate         float64 `toml:"heating_rate"` // °C/min

	// Cooling specifies whether the body is left to equilibrate after
	// heating ends.
	Cooling bool `toml:"cooling"`

	Conductivity Property `toml:"conductivity"`  // W/(m K)
	HeatCapacity Property `toml:"heat_capacity"` // J/(kg K)
	RockDensity  float64  `toml:"rock_density"`  // kg/m³

	Chemistry      bool    `toml:"chemistry"`
	KerogenDensity float64 `toml:"kerogen_density"` // kg/m³
	TOC            float64 `toml:"toc"`             // total organic carbon [%]
}

// Mesh creates the mesh specified by the configuration.
func (c *Config) Mesh() (Mesh, error) {
	switch c.Geometry {
	case Sphere:
		return NewSphereMesh(c.SphereRadius, c.SphereNodes)
	case Cylinder:
		return NewCylinderMesh(c.CylinderRadius, c.CylinderHeight,
			c.CylinderRadialNodes, c.CylinderAxialNodes)
	case Cuboid:
		return NewCuboidMesh(c.CuboidExtents, c.CuboidNodes)
	default:
		return nil, fmt.Errorf("kerogen: invalid geometry %d; it must be 1 (sphere), "+
			"2 (cylinder) or 3 (cuboid)", int(c.Geometry))
	}
}

// Validate checks that the configuration describes a simulation that
// can be run.
func (c *Config) Validate() error {
	if c.TimestepsPerSecond < 1 {
		return fmt.Errorf("kerogen: TimestepsPerSecond must be >= 1 but is %d", c.TimestepsPerSecond)
	}
	if _, err := c.Mesh(); err != nil {
		return err
	}
	if c.HeatingTime < 0 {
		return fmt.Errorf("kerogen: HeatingTime must be >= 0 but is %g", c.HeatingTime)
	}
	vars := []float64{c.Conductivity.Value, c.HeatCapacity.Value, c.RockDensity}
	varNames := []string{"Conductivity.Value", "HeatCapacity.Value", "RockDensity"}
	for i, v := range vars {
		if !(v > 0) {
			return fmt.Errorf("kerogen: %s=%g but should be >0", varNames[i], v)
		}
	}
	if c.InitialTemperature+ZeroCelsius <= 0 {
		return fmt.Errorf("kerogen: InitialTemperature=%g °C is below absolute zero", c.InitialTemperature)
	}
	if c.FixedMaxTemperature && c.MaxTemperature < c.InitialTemperature {
		return fmt.Errorf("kerogen: MaxTemperature (%g °C) is less than InitialTemperature (%g °C)",
			c.MaxTemperature, c.InitialTemperature)
	}
	if c.Chemistry {
		if c.TOC < 0 || c.TOC > 100 {
			return fmt.Errorf("kerogen: TOC must be between 0 and 100 but is %g", c.TOC)
		}
		if !(c.KerogenDensity > 0) {
			return fmt.Errorf("kerogen: KerogenDensity=%g but should be >0", c.KerogenDensity)
		}
	}
	return nil
}

// HeatingSteps returns the number of time steps in the heating phase.
// If FixedMaxTemperature is true, heating stops one step after the
// boundary reaches MaxTemperature.
func (c *Config) HeatingSteps() int {
	steps := int(math.Round(c.HeatingTime * float64(c.TimestepsPerSecond)))
	if c.FixedMaxTemperature && c.HeatingRate > 0 {
		limit := int(math.Ceil((c.MaxTemperature-c.InitialTemperature)/
			(c.HeatingRate/60)*float64(c.TimestepsPerSecond))) + 1
		if limit < steps {
			steps = limit
		}
	}
	return steps
}

// OmittedOutputs returns the names of the tracked fields that are not
// worth writing to output files: diffusivity, and any property held fixed.
func (c *Config) OmittedOutputs() []string {
	o := []string{"Diffusivity"}
	if c.Conductivity.Fixed {
		o = append(o, "Conductivity")
	}
	if c.HeatCapacity.Fixed {
		o = append(o, "HeatCapacity")
	}
	return o
}

// Initialize returns a function that creates the mesh and the fields of
// the simulation and sets their initial values. Concentration fields are
// only created for the given species if chemistry is enabled.
func (c *Config) Initialize(species []*Species) DomainManipulator {
	return func(d *Simulation) error {
		if err := c.Validate(); err != nil {
			return err
		}
		m, err := c.Mesh()
		if err != nil {
			return err
		}
		d.Mesh = m
		d.TimestepsPerSecond = c.TimestepsPerSecond
		d.Dt = 1 / float64(c.TimestepsPerSecond)
		d.Step = 0
		d.Phase = Heating
		d.Done = false

		t0 := c.InitialTemperature + ZeroCelsius
		d.Temperature = NewField("Temperature", m)
		d.Temperature.Fill(t0)

		k0 := c.Conductivity.Value
		if !c.Conductivity.Fixed {
			k0 = Conductivity(k0, t0)
		}
		d.Conductivity = NewField("Conductivity", m)
		d.Conductivity.Fill(k0)

		cp0 := c.HeatCapacity.Value
		if !c.HeatCapacity.Fixed {
			cp0 = HeatCapacity(cp0, t0)
		}
		d.HeatCapacity = NewField("HeatCapacity", m)
		d.HeatCapacity.Fill(cp0)

		// If either property is fixed, the initial diffusivity comes from
		// the base values.
		d.Diffusivity = NewField("Diffusivity", m)
		if c.Conductivity.Fixed || c.HeatCapacity.Fixed {
			d.Diffusivity.Fill(Diffusivity(c.Conductivity.Value, c.HeatCapacity.Value, c.RockDensity))
		} else {
			d.Diffusivity.Fill(Diffusivity(k0, cp0, c.RockDensity))
		}

		d.Species = nil
		d.Concentrations = nil
		if c.Chemistry {
			for _, s := range species {
				f := NewField("C_"+s.Name(), m)
				f.Fill(1)
				d.Species = append(d.Species, s)
				d.Concentrations = append(d.Concentrations, f)
			}
		}
		return nil
	}
}
