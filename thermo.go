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

// ZeroCelsius is 0 °C in Kelvin.
const ZeroCelsius = 273.15

// Property is a thermodynamic rock property that is either held constant
// or recalculated from the local temperature every time step.
type Property struct {
	// Fixed specifies whether the property is held at Value.
	Fixed bool `toml:"fixed"`

	// Value is the constant value when Fixed is true, otherwise it is the
	// base value at 20 °C used by the temperature correlation.
	Value float64 `toml:"value"`
}

// Conductivity returns the thermal conductivity [W/(m K)] at temperature t [K],
// given the conductivity base [W/(m K)] measured at 20 °C.
func Conductivity(base, t float64) float64 {
	return 358*(1.0227*base-1.882)*(1/t-0.00068) + 1.84
}

// HeatCapacity returns the specific heat capacity [J/(kg K)] at temperature
// t [K], given the heat capacity base [J/(kg K)] measured at 20 °C.
func HeatCapacity(base, t float64) float64 {
	dt := t - ZeroCelsius
	return base * (0.953 + 2.29e-3*dt - 2.835e-6*dt*dt + 1.191e-9*dt*dt*dt)
}

// Diffusivity returns the thermal diffusivity [m²/s] for conductivity k,
// heat capacity cp, and rock density rho [kg/m³].
func Diffusivity(k, cp, rho float64) float64 {
	return k / (cp * rho)
}
