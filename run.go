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
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// ErrDiverged is returned when the temperature field contains invalid
// values. Rerunning with more time steps per second may fix the problem.
var ErrDiverged = errors.New("kerogen: temperature field has diverged; try increasing the number of time steps per second")

// Calculations returns a function that concurrently runs a series of
// calculations on all of the mesh nodes. Every calculator reads only
// beginning-of-step values and writes only the end-of-step value of its
// own node, so nodes can be processed in any order without locking.
func Calculations(calculators ...NodeManipulator) DomainManipulator {
	nprocs := runtime.GOMAXPROCS(0) // number of processors
	var wg sync.WaitGroup

	return func(d *Simulation) error {
		n := d.Mesh.Size()
		wg.Add(nprocs)
		for pp := 0; pp < nprocs; pp++ {
			go func(pp int) {
				for ii := pp; ii < n; ii += nprocs {
					for _, f := range calculators {
						f(d, ii, d.Dt)
					}
				}
				wg.Done()
			}(pp)
		}
		wg.Wait()
		return nil
	}
}

// SwapFields returns a function that makes the end-of-step values of every
// field the current values and advances the step counter.
func SwapFields() DomainManipulator {
	return func(d *Simulation) error {
		for _, f := range d.Fields() {
			f.Swap()
		}
		d.Step++
		return nil
	}
}

// RunPeriodically returns a function that runs the given functions once
// every simulated second.
func RunPeriodically(funcs ...DomainManipulator) DomainManipulator {
	return func(d *Simulation) error {
		if d.Step%d.TimestepsPerSecond != 0 {
			return nil
		}
		for _, f := range funcs {
			if err := f(d); err != nil {
				return err
			}
		}
		return nil
	}
}

// DivergenceCheck returns a function that returns ErrDiverged if the
// temperature field holds invalid values.
func DivergenceCheck() DomainManipulator {
	return func(d *Simulation) error {
		if d.Temperature.HasInvalidValue() {
			return ErrDiverged
		}
		return nil
	}
}

// PhaseStatus reports a change in the phase of the simulation.
type PhaseStatus struct {
	From, To Phase
	Step     int
	Seconds  float64
}

func (p PhaseStatus) String() string {
	return fmt.Sprintf("%v phase finished after %d steps (%g s); entering %v phase",
		p.From, p.Step, p.Seconds, p.To)
}

// HeatingSchedule returns a function that ends the heating phase after
// c.HeatingSteps() steps, entering the cooling phase if it is enabled and
// ending the simulation otherwise. It must run before the step's
// calculations. Phase changes are sent to msg if it is not nil.
func (c *Config) HeatingSchedule(msg chan PhaseStatus) DomainManipulator {
	heatingSteps := c.HeatingSteps()
	return func(d *Simulation) error {
		if d.Phase != Heating || d.Step < heatingSteps {
			return nil
		}
		next := Terminated
		if c.Cooling {
			next = Cooling
		}
		changePhase(d, next, msg)
		return nil
	}
}

// EquilibriumCheck returns a function that ends the cooling phase once every
// field is nearly equal to its value from the previous step. It must be run
// after SwapFields.
func EquilibriumCheck(msg chan PhaseStatus) DomainManipulator {
	return func(d *Simulation) error {
		if d.Phase != Cooling {
			return nil
		}
		for _, f := range d.Fields() {
			if !f.Settled() {
				return nil
			}
		}
		changePhase(d, Terminated, msg)
		return nil
	}
}

func changePhase(d *Simulation, p Phase, msg chan PhaseStatus) {
	if msg != nil {
		msg <- PhaseStatus{From: d.Phase, To: p, Step: d.Step, Seconds: d.Seconds()}
	}
	d.Phase = p
	if p == Terminated {
		d.Done = true
	}
}

// SimulationStatus holds information about the progress of a simulation.
type SimulationStatus struct {
	Step            int
	Seconds         float64 // simulated time
	Phase           Phase
	Walltime        time.Duration
	StepWalltime    time.Duration // wall time since the last status
	MeanTemperature float64       // K
	MaxTemperature  float64       // K
	MeanConversion  float64       // fraction of kerogen converted
}

func (s *SimulationStatus) String() string {
	return fmt.Sprintf("%-8v step %-8d t=%-8gs walltime=%6.3gh Δwalltime=%4.2gs "+
		"T(mean)=%.2fK T(max)=%.2fK conversion=%.4f",
		s.Phase, s.Step, s.Seconds, s.Walltime.Hours(), s.StepWalltime.Seconds(),
		s.MeanTemperature, s.MaxTemperature, s.MeanConversion)
}

// Log returns a function that sends simulation status messages to c.
func Log(c chan *SimulationStatus) DomainManipulator {
	startTime := time.Now()
	lastTime := time.Now()

	return func(d *Simulation) error {
		if c == nil {
			return nil
		}
		s := &SimulationStatus{
			Step:            d.Step,
			Seconds:         d.Seconds(),
			Phase:           d.Phase,
			Walltime:        time.Since(startTime),
			StepWalltime:    time.Since(lastTime),
			MeanTemperature: d.Temperature.Mean(),
			MaxTemperature:  d.Temperature.Max(),
			MeanConversion:  d.Conversion(),
		}
		lastTime = time.Now()
		c <- s
		return nil
	}
}

// Conversion returns the mass fraction of the kerogen that has decomposed,
// averaged over all nodes.
func (d *Simulation) Conversion() float64 {
	var remaining float64
	var total float64
	for j, s := range d.Species {
		remaining += s.Proportion() / 100 * d.Concentrations[j].Mean()
		total += s.Proportion() / 100
	}
	if total == 0 {
		return 0
	}
	return 1 - remaining/total
}

// DefaultRunFuncs returns the functions that advance a simulation by one
// time step: the heating schedule, the node calculations, the buffer swap,
// and the once-per-second checks and output. extra functions are run once
// per second after the divergence check. msg and status may be nil.
func (c *Config) DefaultRunFuncs(msg chan PhaseStatus, status chan *SimulationStatus, extra ...DomainManipulator) []DomainManipulator {
	perSecond := append([]DomainManipulator{DivergenceCheck()}, extra...)
	perSecond = append(perSecond, Log(status), EquilibriumCheck(msg))
	return []DomainManipulator{
		c.HeatingSchedule(msg),
		Calculations(c.HeatTransfer(), c.ThermalProperties(), Decomposition()),
		SwapFields(),
		RunPeriodically(perSecond...),
	}
}
