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

import "math"

// R is the universal gas constant [J/(mol K)].
const R = 8.314472

// Species holds the kinetic and thermodynamic parameters of one
// decomposing fraction of the kerogen. It is immutable once created.
type Species struct {
	name       string
	a          float64 // pre-exponential factor [1/s]
	ea         float64 // activation energy [J/mol]
	proportion float64 // mass proportion of total kerogen [%]
	deltaH     float64 // specific enthalpy of reaction [J/kg]; negative is exothermic
	molarMass  float64 // [kg/mol]
	alpha      float64
}

// NewSpecies creates a new species, where a is the Arrhenius pre-exponential
// factor [1/s], ea is the activation energy [J/mol], proportion is the
// percentage (0–100) of the total kerogen mass made up by this species,
// deltaH is the specific enthalpy of reaction [J/kg] and molarMass is
// in [kg/mol].
func NewSpecies(name string, a, ea, proportion, deltaH, molarMass float64) *Species {
	return &Species{
		name:       name,
		a:          a,
		ea:         ea,
		proportion: proportion,
		deltaH:     deltaH,
		molarMass:  molarMass,
		alpha:      deltaH * (proportion / 100) / molarMass,
	}
}

// Name returns the species name.
func (s *Species) Name() string { return s.name }

// PreExponentialFactor returns A [1/s].
func (s *Species) PreExponentialFactor() float64 { return s.a }

// ActivationEnergy returns Ea [J/mol].
func (s *Species) ActivationEnergy() float64 { return s.ea }

// Proportion returns the mass percentage of total kerogen.
func (s *Species) Proportion() float64 { return s.proportion }

// DeltaH returns the specific enthalpy of reaction [J/kg].
func (s *Species) DeltaH() float64 { return s.deltaH }

// MolarMass returns the molar mass [kg/mol].
func (s *Species) MolarMass() float64 { return s.molarMass }

// Alpha returns the energy released per unit mass of total kerogen
// converted.
func (s *Species) Alpha() float64 { return s.alpha }

// Rate returns the first-order Arrhenius reaction rate [1/s] at
// temperature t [K]. t must be > 0.
func (s *Species) Rate(t float64) float64 {
	return s.a * math.Exp(-s.ea/(R*t))
}
