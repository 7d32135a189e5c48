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
	"math"
	"testing"
)

func TestSpeciesAlpha(t *testing.T) {
	s := NewSpecies("Type1", 1e13, 200000, 50, -500000, 0.3)
	if want := -833333.3333333334; different(s.Alpha(), want, 1e-12) {
		t.Errorf("alpha: have %g, want %g", s.Alpha(), want)
	}
	if want := 1e13 * math.Exp(-200000/(R*700)); different(s.Rate(700), want, 1e-12) {
		t.Errorf("rate: have %g, want %g", s.Rate(700), want)
	}
	if s.Rate(700) <= s.Rate(600) {
		t.Error("rate should increase with temperature")
	}
}

func TestThermalProperties(t *testing.T) {
	if hc := HeatCapacity(1000, ZeroCelsius); different(hc, 953, 1e-12) {
		t.Errorf("heat capacity at 0 °C: have %g, want 953", hc)
	}
	want := 1000 * (0.953 + 2.29e-3*100 - 2.835e-6*100*100 + 1.191e-9*100*100*100)
	if hc := HeatCapacity(1000, ZeroCelsius+100); different(hc, want, 1e-12) {
		t.Errorf("heat capacity at 100 °C: have %g, want %g", hc, want)
	}
	want = 358*(1.0227*2-1.882)*(1/400.-0.00068) + 1.84
	if k := Conductivity(2, 400); different(k, want, 1e-12) {
		t.Errorf("conductivity: have %g, want %g", k, want)
	}
	if d := Diffusivity(2, 1000, 2500); different(d, 8e-7, 1e-12) {
		t.Errorf("diffusivity: have %g, want 8e-7", d)
	}
}

// sphereSimulation returns an initialized three-node sphere simulation,
// where node 1 is the only non-center interior node.
func sphereSimulation(t *testing.T, c *Config, species []*Species) *Simulation {
	c.Geometry = Sphere
	c.SphereRadius = 1000
	c.SphereNodes = 3
	d := &Simulation{InitFuncs: []DomainManipulator{c.Initialize(species)}}
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestHeatTransfer(t *testing.T) {
	c := testConfig()
	c.HeatingRate = 60 // 1 K/s
	d := sphereSimulation(t, c, nil)
	d.Temperature.Ci[0] = 310
	f := c.HeatTransfer()
	for i := 0; i < d.Mesh.Size(); i++ {
		f(d, i, d.Dt)
	}
	dr := d.Mesh.Spacing()[0]
	diff := Diffusivity(2, 1000, 2500)

	want0 := 310 + diff*d.Dt*6*(293.15-310)/(dr*dr)
	if different(d.Temperature.Cf[0], want0, 1e-12) {
		t.Errorf("center: have %g, want %g", d.Temperature.Cf[0], want0)
	}
	want1 := 293.15 + diff*d.Dt*(310-293.15)/(dr*dr)
	if different(d.Temperature.Cf[1], want1, 1e-12) {
		t.Errorf("interior: have %g, want %g", d.Temperature.Cf[1], want1)
	}
	if want := 293.15 + 0.1; different(d.Temperature.Cf[2], want, 1e-12) {
		t.Errorf("boundary while heating: have %g, want %g", d.Temperature.Cf[2], want)
	}

	d.Phase = Cooling
	f(d, 2, d.Dt)
	if d.Temperature.Cf[2] != 293.15 {
		t.Errorf("boundary while cooling: have %g, want 293.15", d.Temperature.Cf[2])
	}
}

func TestChemicalHeat(t *testing.T) {
	c := testConfig()
	c.Chemistry = true
	c.InitialTemperature = 400
	species := testSpecies()
	d := sphereSimulation(t, c, species)
	if len(d.Concentrations) != 2 || d.Concentrations[1].Name != "C_Type2" {
		t.Fatalf("concentration fields are wrong: %v", d.Concentrations)
	}
	temp := 400 + ZeroCelsius
	var chem float64
	for _, s := range species {
		chem -= s.Alpha() * (0.1 * 1200) * s.Rate(temp)
	}
	c.HeatTransfer()(d, 1, d.Dt)
	if want := temp + d.Dt*chem; different(d.Temperature.Cf[1], want, 1e-12) {
		t.Errorf("have %g, want %g", d.Temperature.Cf[1], want)
	}
	if d.Temperature.Cf[1] <= temp {
		t.Error("exothermic reactions should raise the temperature")
	}
}

func TestDecomposition(t *testing.T) {
	c := testConfig()
	c.Chemistry = true
	c.InitialTemperature = 400
	species := testSpecies()
	d := sphereSimulation(t, c, species)
	d.Concentrations[0].Ci[1] = 0.5
	Decomposition()(d, 1, d.Dt)
	k := species[0].Rate(400 + ZeroCelsius)
	if want := 0.5 - d.Dt*k*0.5; different(d.Concentrations[0].Cf[1], want, 1e-12) {
		t.Errorf("have %g, want %g", d.Concentrations[0].Cf[1], want)
	}
}

func TestThermalPropertiesUpdate(t *testing.T) {
	c := testConfig()
	c.Conductivity.Fixed = false
	d := sphereSimulation(t, c, nil)
	t0 := 20 + ZeroCelsius
	if want := Conductivity(2, t0); different(d.Conductivity.At(1), want, 1e-12) {
		t.Errorf("initial conductivity: have %g, want %g", d.Conductivity.At(1), want)
	}
	d.Temperature.Ci[1] = 500
	c.ThermalProperties()(d, 1, d.Dt)
	k := Conductivity(2, 500)
	if different(d.Conductivity.Cf[1], k, 1e-12) {
		t.Errorf("conductivity: have %g, want %g", d.Conductivity.Cf[1], k)
	}
	if d.HeatCapacity.Cf[1] != 1000 {
		t.Errorf("fixed heat capacity changed to %g", d.HeatCapacity.Cf[1])
	}
	if want := Diffusivity(k, 1000, 2500); different(d.Diffusivity.Cf[1], want, 1e-12) {
		t.Errorf("diffusivity: have %g, want %g", d.Diffusivity.Cf[1], want)
	}
}
