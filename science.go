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

// HeatTransfer returns a function that calculates the end-of-step
// temperature of a node. Interior nodes are updated by conduction and by
// the heat released or absorbed by the decomposition of each species.
// Boundary nodes follow the heating schedule: they are ramped at
// HeatingRate while heating and held at their last temperature while
// cooling.
func (c *Config) HeatTransfer() NodeManipulator {
	ramp := c.HeatingRate / 60 // K/s
	organicMass := c.TOC / 100 * c.KerogenDensity
	return func(d *Simulation, i int, Δt float64) {
		t := d.Temperature.Ci[i]
		if d.Mesh.IsOnBoundary(i) {
			if d.Phase == Heating {
				d.Temperature.Cf[i] = t + ramp*Δt
			} else {
				d.Temperature.Cf[i] = t
			}
			return
		}
		var chemHeat float64
		for j, s := range d.Species {
			chemHeat -= s.Alpha() * organicMass * s.Rate(t) * d.Concentrations[j].Ci[i]
		}
		d.Temperature.Cf[i] = t + d.Diffusivity.Ci[i]*Δt*d.Temperature.Laplacian(i) + Δt*chemHeat
	}
}

// ThermalProperties returns a function that recalculates the
// temperature-dependent rock properties from the beginning-of-step
// temperature. Fixed properties are left untouched, and diffusivity is
// only recalculated if at least one of its inputs varies.
func (c *Config) ThermalProperties() NodeManipulator {
	k, cp := c.Conductivity, c.HeatCapacity
	rho := c.RockDensity
	return func(d *Simulation, i int, Δt float64) {
		if k.Fixed && cp.Fixed {
			return
		}
		t := d.Temperature.Ci[i]
		if !k.Fixed {
			d.Conductivity.Cf[i] = Conductivity(k.Value, t)
		}
		if !cp.Fixed {
			d.HeatCapacity.Cf[i] = HeatCapacity(cp.Value, t)
		}
		d.Diffusivity.Cf[i] = Diffusivity(d.Conductivity.Cf[i], d.HeatCapacity.Cf[i], rho)
	}
}

// Decomposition returns a function that calculates first-order decay
// of each species. Concentrations are not limited to be non-negative,
// so time steps that are too long for the reaction rate can result in
// negative values.
func Decomposition() NodeManipulator {
	return func(d *Simulation, i int, Δt float64) {
		t := d.Temperature.Ci[i]
		for j, s := range d.Species {
			c := d.Concentrations[j]
			c.Cf[i] = c.Ci[i] - Δt*s.Rate(t)*c.Ci[i]
		}
	}
}
