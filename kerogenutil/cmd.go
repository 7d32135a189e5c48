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

// Package kerogenutil contains the command-line interface for kerogen.
package kerogenutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/kerogen"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to kerogen.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Geometry",
			usage: `
              Geometry specifies the shape of the simulated body:
              1 for a sphere, 2 for a cylinder, or 3 for a rectangular cuboid.`,
			shorthand:  "g",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Sphere.Radius",
			usage: `
              Sphere.Radius is the radius of the sphere [µm].`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Sphere.Nodes",
			usage: `
              Sphere.Nodes is the number of radial nodes, including the
              center and the surface.`,
			defaultVal: 11,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Cylinder.Radius",
			usage: `
              Cylinder.Radius is the radius of the cylinder [µm].`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Cylinder.Height",
			usage: `
              Cylinder.Height is the height of the cylinder [µm].`,
			defaultVal: 2000.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Cylinder.RadialNodes",
			usage: `
              Cylinder.RadialNodes is the number of nodes from the axis to
              the curved surface.`,
			defaultVal: 11,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Cylinder.AxialNodes",
			usage: `
              Cylinder.AxialNodes is the number of nodes from the bottom to
              the top face.`,
			defaultVal: 21,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Cuboid.Extents",
			usage: `
              Cuboid.Extents are the edge lengths of the cuboid in the
              x, y and z directions [µm].`,
			defaultVal: []string{"1000", "1000", "1000"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Cuboid.Nodes",
			usage: `
              Cuboid.Nodes are the numbers of nodes in the x, y and z directions.`,
			defaultVal: []int{11, 11, 11},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "HeatingTime",
			usage: `
              HeatingTime is the maximum duration of the heating phase [s].`,
			defaultVal: 3600.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TimestepsPerSecond",
			usage: `
              TimestepsPerSecond is the number of time steps in each simulated
              second. Larger numbers are needed for finer meshes and larger
              thermal diffusivities to keep the simulation from diverging.`,
			defaultVal: 1000,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "InitialTemperature",
			usage: `
              InitialTemperature is the uniform starting temperature of the body [°C].`,
			defaultVal: 20.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MaxTemperature",
			usage: `
              MaxTemperature is the surface temperature at which heating stops
              if FixedMaxTemperature is true [°C].`,
			defaultVal: 500.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "FixedMaxTemperature",
			usage: `
              FixedMaxTemperature specifies whether heating stops when the
              surface reaches MaxTemperature.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "HeatingRate",
			usage: `
              HeatingRate is the rate at which the surface temperature rises
              during heating [°C/min].`,
			defaultVal: 10.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Cooling",
			usage: `
              Cooling specifies whether to continue the simulation after heating
              ends, holding the surface temperature constant, until every field
              stops changing.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Conductivity.Fixed",
			usage: `
              Conductivity.Fixed specifies whether the thermal conductivity is
              held at Conductivity.Value instead of varying with temperature.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Conductivity.Value",
			usage: `
              Conductivity.Value is the thermal conductivity of the rock, or
              its base value if it varies with temperature [W/(m K)].`,
			defaultVal: 2.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "HeatCapacity.Fixed",
			usage: `
              HeatCapacity.Fixed specifies whether the specific heat capacity is
              held at HeatCapacity.Value instead of varying with temperature.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "HeatCapacity.Value",
			usage: `
              HeatCapacity.Value is the specific heat capacity of the rock, or
              its base value if it varies with temperature [J/(kg K)].`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "RockDensity",
			usage: `
              RockDensity is the bulk density of the rock [kg/m³].`,
			defaultVal: 2500.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Chemistry",
			usage: `
              Chemistry specifies whether to simulate the decomposition of the
              species in SpeciesFile.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "KerogenDensity",
			usage: `
              KerogenDensity is the density of the kerogen [kg/m³].`,
			defaultVal: 1200.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TOC",
			usage: `
              TOC is the total organic carbon content of the rock [%].`,
			defaultVal: 10.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SpeciesFile",
			usage: `
              SpeciesFile is the path to a CSV or YAML table of kerogen species.
              It is required if Chemistry is true. It can include environment
              variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory that output files are written to. It
              is created if it doesn't exist. It can include environment variables.`,
			shorthand:  "o",
			defaultVal: "kerogen_output",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "OutputPrecision",
			usage: `
              OutputPrecision is the number of significant digits of output values.`,
			defaultVal: 6,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies derived variables to be written in
              addition to the model fields, as a map of names to expressions.
              Expressions can use the names of the model fields (Temperature,
              HeatCapacity, Conductivity, Diffusivity, and C_ followed by a
              species name) and the functions exp and log.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SnapshotFile",
			usage: `
              SnapshotFile is the path where the final state of every field
              is saved in NetCDF format. If it is empty, no snapshot is saved.
              It can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved
              in OutputDir.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Plot.Field",
			usage: `
              Plot.Field is the name of the output file, without its directory,
              that should be plotted, for example Temperature_z=0.0005m.csv
              for a cylinder. Node positions are read from its header rows.`,
			defaultVal: "Temperature.csv",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "Plot.Times",
			usage: `
              Plot.Times are the simulated times [s] of the profiles to plot.
              The closest output row is used for each. If empty, the last
              row is plotted.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "Plot.OutputFile",
			usage: `
              Plot.OutputFile is the path of the image to create. The format is
              chosen from the extension.`,
			defaultVal: "profile.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("KEROGEN")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
			case int:
				set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
			case []int:
				set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				set.StringP(option.name, option.shorthand, b.String(), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(plotCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("kerogen: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "kerogen",
	Short: "A model of heat conduction and kerogen pyrolysis.",
	Long: `kerogen simulates the heating of a sphere, cylinder, or rectangular cuboid
of organic-rich rock, and optionally the decomposition of the kerogen it holds.
The surface of the body is heated at a constant rate and then optionally held
at its final temperature while the interior equilibrates.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'KEROGEN_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of kerogen.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("kerogen v%s\n", kerogen.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a simulation.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run runs a heating simulation and writes the value of every field at
every node to CSV files in OutputDir once per simulated second.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := SimulationConfig(Cfg)
		if err != nil {
			return err
		}
		species, err := loadSpecies(c.Chemistry, os.ExpandEnv(Cfg.GetString("SpeciesFile")))
		if err != nil {
			return err
		}
		outputDir, err := checkOutputDir(Cfg.GetString("OutputDir"))
		if err != nil {
			return err
		}
		outputVars, err := checkOutputVars(GetStringMapString("OutputVariables", Cfg))
		if err != nil {
			return err
		}
		return Run(
			cmd,
			checkLogFile(Cfg.GetString("LogFile"), outputDir),
			outputDir,
			Cfg.GetInt("OutputPrecision"),
			outputVars,
			os.ExpandEnv(Cfg.GetString("SnapshotFile")),
			c, species,
		)
	},
	DisableAutoGenTag: true,
}

// plotCmd is a command that plots profiles from the output of a simulation.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot output profiles.",
	Long: `plot creates an image of the node values in one output file at one or
more simulated times.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		times, err := toFloat64SliceE(Cfg.Get("Plot.Times"))
		if err != nil {
			return fmt.Errorf("kerogen: Plot.Times: %v", err)
		}
		return Plot(
			os.ExpandEnv(Cfg.GetString("OutputDir")),
			Cfg.GetString("Plot.Field"),
			os.ExpandEnv(Cfg.GetString("Plot.OutputFile")),
			times,
		)
	},
	DisableAutoGenTag: true,
}
