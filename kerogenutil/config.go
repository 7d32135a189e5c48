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

package kerogenutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/kerogen"
	"github.com/spatialmodel/kerogen/science/chem/speciestable"
	"github.com/spf13/cast"
)

// SimulationConfig unmarshals a viper configuration for a simulation
// and checks that it is valid.
func SimulationConfig(cfg *viper.Viper) (*kerogen.Config, error) {
	extents, err := toFloat64SliceE(cfg.Get("Cuboid.Extents"))
	if err != nil {
		return nil, fmt.Errorf("kerogen: Cuboid.Extents: %v", err)
	}
	nodes, err := toIntSliceE(cfg.Get("Cuboid.Nodes"))
	if err != nil {
		return nil, fmt.Errorf("kerogen: Cuboid.Nodes: %v", err)
	}
	geometry := kerogen.Geometry(cfg.GetInt("Geometry"))
	if geometry == kerogen.Cuboid {
		if len(extents) != 3 {
			return nil, fmt.Errorf("kerogen: Cuboid.Extents must have 3 values but has %d", len(extents))
		}
		if len(nodes) != 3 {
			return nil, fmt.Errorf("kerogen: Cuboid.Nodes must have 3 values but has %d", len(nodes))
		}
	}

	c := &kerogen.Config{
		Geometry:            geometry,
		SphereRadius:        cfg.GetFloat64("Sphere.Radius"),
		SphereNodes:         cfg.GetInt("Sphere.Nodes"),
		CylinderRadius:      cfg.GetFloat64("Cylinder.Radius"),
		CylinderHeight:      cfg.GetFloat64("Cylinder.Height"),
		CylinderRadialNodes: cfg.GetInt("Cylinder.RadialNodes"),
		CylinderAxialNodes:  cfg.GetInt("Cylinder.AxialNodes"),
		HeatingTime:         cfg.GetFloat64("HeatingTime"),
		TimestepsPerSecond:  cfg.GetInt("TimestepsPerSecond"),
		InitialTemperature:  cfg.GetFloat64("InitialTemperature"),
		MaxTemperature:      cfg.GetFloat64("MaxTemperature"),
		FixedMaxTemperature: cfg.GetBool("FixedMaxTemperature"),
		HeatingRate:         cfg.GetFloat64("HeatingRate"),
		Cooling:             cfg.GetBool("Cooling"),
		Conductivity: kerogen.Property{
			Fixed: cfg.GetBool("Conductivity.Fixed"),
			Value: cfg.GetFloat64("Conductivity.Value"),
		},
		HeatCapacity: kerogen.Property{
			Fixed: cfg.GetBool("HeatCapacity.Fixed"),
			Value: cfg.GetFloat64("HeatCapacity.Value"),
		},
		RockDensity:    cfg.GetFloat64("RockDensity"),
		Chemistry:      cfg.GetBool("Chemistry"),
		KerogenDensity: cfg.GetFloat64("KerogenDensity"),
		TOC:            cfg.GetFloat64("TOC"),
	}
	copy(c.CuboidExtents[:], extents)
	copy(c.CuboidNodes[:], nodes)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// loadSpecies reads the species table if chemistry is enabled.
func loadSpecies(chemistry bool, speciesFile string) ([]*kerogen.Species, error) {
	if !chemistry {
		return nil, nil
	}
	if speciesFile == "" {
		return nil, fmt.Errorf("kerogen: you need to specify a SpeciesFile when Chemistry is true")
	}
	return speciestable.ReadFile(speciesFile)
}

// checkOutputVars removes end lines and expands environment
// variables in the output variables.
func checkOutputVars(vars map[string]string) (map[string]string, error) {
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		k = os.ExpandEnv(k)
		if k == "" {
			return nil, fmt.Errorf("kerogen: output variable with expression '%s' has no name", v)
		}
		o[k] = os.ExpandEnv(v)
	}
	return o, nil
}

// checkOutputDir makes sure that the output directory is specified,
// expands any environment variables, and creates it if it doesn't exist.
func checkOutputDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf(`kerogen: you need to specify an output directory configuration variable (for example: OutputDir="output")`)
	}
	dir = os.ExpandEnv(dir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return dir, fmt.Errorf("kerogen: problem creating OutputDir: %v", err)
	}
	return dir, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputDir string) string {
	if logFile == "" {
		return filepath.Join(outputDir, "kerogen.log")
	}
	return os.ExpandEnv(logFile)
}

// toIntSliceE converts a configuration value to a slice of ints. The
// value can be a list from a configuration file, or a string if it was
// set from a command line argument or environment variable.
func toIntSliceE(s interface{}) ([]int, error) {
	vals, err := toSlice(s)
	if err != nil {
		return nil, err
	}
	o := make([]int, len(vals))
	for i, v := range vals {
		if o[i], err = cast.ToIntE(v); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// toFloat64SliceE converts a configuration value to a slice of float64s
// in the same way as toIntSliceE.
func toFloat64SliceE(s interface{}) ([]float64, error) {
	vals, err := toSlice(s)
	if err != nil {
		return nil, err
	}
	o := make([]float64, len(vals))
	for i, v := range vals {
		if o[i], err = cast.ToFloat64E(v); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func toSlice(s interface{}) ([]interface{}, error) {
	switch v := s.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		return v, nil
	case []string:
		o := make([]interface{}, 0, len(v))
		for _, vv := range v {
			if vv = strings.TrimSpace(vv); vv != "" {
				o = append(o, vv)
			}
		}
		return o, nil
	case []int:
		o := make([]interface{}, len(v))
		for i, vv := range v {
			o[i] = vv
		}
		return o, nil
	case []float64:
		o := make([]interface{}, len(v))
		for i, vv := range v {
			o[i] = vv
		}
		return o, nil
	case string:
		// Flag values are formatted as "[a,b,c]".
		v = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(v), "["), "]"))
		if v == "" {
			return nil, nil
		}
		return toSlice(strings.Split(v, ","))
	default:
		return nil, fmt.Errorf("invalid list value %#v", s)
	}
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	switch i.(type) {
	case nil:
		return map[string]string{}
	case map[string]string:
		return i.(map[string]string)
	case map[string]interface{}:
		return cast.ToStringMapString(i)
	case string:
		o := make(map[string]string)
		if strings.TrimSpace(i.(string)) == "" {
			return o
		}
		d := json.NewDecoder(bytes.NewBufferString(i.(string)))
		if err := d.Decode(&o); err != nil {
			panic(err)
		}
		return o
	default:
		panic(fmt.Errorf("invalid type for GetStringMapString variable %s: %#v", varName, i))
	}
}
