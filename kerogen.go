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

// Package kerogen simulates transient heat conduction coupled with
// first-order decomposition of kerogen species inside a solid sphere,
// cylinder or rectangular cuboid that is heated and then optionally left
// to cool.
//
// A simulation is assembled from functions that run once at
// initialization (InitFuncs), once per time step (RunFuncs), and once
// after the simulation is finished (CleanupFuncs).
package kerogen

import "fmt"

// Version gives the version number.
const Version = "0.1.0"

// Phase is a stage of the heating schedule.
type Phase int

// These are the phases a simulation passes through, in order.
// Cooling is skipped if it is not enabled.
const (
	Heating Phase = iota
	Cooling
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Heating:
		return "heating"
	case Cooling:
		return "cooling"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Simulation holds the current state of the model.
type Simulation struct {
	// InitFuncs are functions to be called in the given order
	// at the beginning of the simulation.
	InitFuncs []DomainManipulator

	// RunFuncs are functions to be called in the given order repeatedly
	// until "Done" is true. Therefore, the simulation will not end until
	// one of the functions sets Done to true.
	RunFuncs []DomainManipulator

	// CleanupFuncs are functions to be called in the given order
	// at the end of the simulation.
	CleanupFuncs []DomainManipulator

	Mesh Mesh

	Temperature  *Field // [K]
	HeatCapacity *Field // [J/(kg K)]
	Conductivity *Field // [W/(m K)]
	Diffusivity  *Field // [m²/s]

	// Concentrations holds the remaining fraction of each species, in the
	// same order as Species.
	Concentrations []*Field
	Species        []*Species

	Dt                 float64 // time step [s]
	TimestepsPerSecond int

	// Step is the number of completed time steps.
	Step int

	Phase Phase

	// Done specifies whether the simulation is finished.
	Done bool
}

// DomainManipulator is a class of functions that operate on the entire
// simulation.
type DomainManipulator func(d *Simulation) error

// NodeManipulator is a class of functions that operate on a single node,
// reading the beginning-of-step values of any field and writing only the
// end-of-step values of node i.
type NodeManipulator func(d *Simulation, i int, Δt float64)

// Init initializes the simulation by running d.InitFuncs.
func (d *Simulation) Init() error {
	for _, f := range d.InitFuncs {
		if err := f(d); err != nil {
			return err
		}
	}
	return nil
}

// Run carries out the simulation by running d.RunFuncs until d.Done is true.
// Once a function sets d.Done, the functions after it are not run.
func (d *Simulation) Run() error {
	for !d.Done {
		for _, f := range d.RunFuncs {
			if err := f(d); err != nil {
				return err
			}
			if d.Done {
				return nil
			}
		}
	}
	return nil
}

// Cleanup finishes the simulation by running d.CleanupFuncs.
func (d *Simulation) Cleanup() error {
	for _, f := range d.CleanupFuncs {
		if err := f(d); err != nil {
			return err
		}
	}
	return nil
}

// Fields returns every tracked field: temperature, heat capacity,
// conductivity, diffusivity, and then the species concentrations.
func (d *Simulation) Fields() []*Field {
	o := []*Field{d.Temperature, d.HeatCapacity, d.Conductivity, d.Diffusivity}
	return append(o, d.Concentrations...)
}

// Seconds returns the simulated time [s].
func (d *Simulation) Seconds() float64 {
	return float64(d.Step) / float64(d.TimestepsPerSecond)
}
