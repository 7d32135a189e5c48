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

// Package speciestable reads tables of kerogen species kinetic and
// thermodynamic parameters.
//
// Tables are either CSV files with the header
//
//	name,a,ea,proportion,delta_h,molar_mass
//
// or YAML files holding a list of records with the same keys.
// Units are: a [1/s], ea [kcal/mol], proportion [% of total kerogen],
// delta_h [J/kg] and molar_mass [kg/mol].
package speciestable

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spatialmodel/kerogen"
	"gopkg.in/yaml.v3"
)

// JoulesPerKcal converts activation energies from kcal/mol to J/mol.
const JoulesPerKcal = 4184.

// proportionTolerance is the allowed difference between the sum of
// species proportions and 100%.
const proportionTolerance = 1.e-6

// Format is a species table file format.
type Format string

// These are the supported table formats.
const (
	CSV  Format = "csv"
	YAML Format = "yaml"
)

// Record is one row of a species table.
type Record struct {
	Name       string  `csv:"name" yaml:"name"`
	A          float64 `csv:"a" yaml:"a"`                   // 1/s
	Ea         float64 `csv:"ea" yaml:"ea"`                 // kcal/mol
	Proportion float64 `csv:"proportion" yaml:"proportion"` // %
	DeltaH     float64 `csv:"delta_h" yaml:"delta_h"`       // J/kg
	MolarMass  float64 `csv:"molar_mass" yaml:"molar_mass"` // kg/mol
}

// Read reads a species table in the given format from r. It returns an
// error if the table is empty, a value is invalid, a name is repeated, or
// the proportions do not sum to 100.
func Read(r io.Reader, format Format) ([]*kerogen.Species, error) {
	var records []*Record
	switch format {
	case CSV:
		if err := gocsv.Unmarshal(r, &records); err != nil {
			return nil, fmt.Errorf("speciestable: reading CSV: %v", err)
		}
	case YAML:
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("speciestable: reading YAML: %v", err)
		}
		if err := yaml.Unmarshal(b, &records); err != nil {
			return nil, fmt.Errorf("speciestable: reading YAML: %v", err)
		}
	default:
		return nil, fmt.Errorf("speciestable: invalid format '%s'; valid options are csv and yaml", format)
	}
	return Species(records)
}

// ReadFile reads the species table in the named file, choosing the
// format from the file extension.
func ReadFile(path string) ([]*kerogen.Species, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		format = CSV
	case ".yaml", ".yml":
		format = YAML
	default:
		return nil, fmt.Errorf("speciestable: can't determine format of %s; the extension must be .csv, .yaml or .yml", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("speciestable: %v", err)
	}
	defer f.Close()
	s, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%v (file %s)", err, path)
	}
	return s, nil
}

// Species validates records and converts them to species, converting
// activation energies to J/mol.
func Species(records []*Record) ([]*kerogen.Species, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("speciestable: table has no species")
	}
	seen := make(map[string]bool)
	var total float64
	o := make([]*kerogen.Species, len(records))
	for i, r := range records {
		if r.Name == "" {
			return nil, fmt.Errorf("speciestable: species %d has no name", i)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("speciestable: species %s is listed more than once", r.Name)
		}
		seen[r.Name] = true
		if r.A <= 0 {
			return nil, fmt.Errorf("speciestable: species %s: pre-exponential factor must be > 0 but is %g", r.Name, r.A)
		}
		if r.MolarMass <= 0 {
			return nil, fmt.Errorf("speciestable: species %s: molar mass must be > 0 but is %g", r.Name, r.MolarMass)
		}
		if r.Proportion < 0 || r.Proportion > 100 {
			return nil, fmt.Errorf("speciestable: species %s: proportion must be between 0 and 100 but is %g", r.Name, r.Proportion)
		}
		total += r.Proportion
		o[i] = kerogen.NewSpecies(r.Name, r.A, r.Ea*JoulesPerKcal, r.Proportion, r.DeltaH, r.MolarMass)
	}
	if math.Abs(total-100) > proportionTolerance {
		return nil, fmt.Errorf("speciestable: species proportions sum to %g, not 100", total)
	}
	return o, nil
}
