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
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/kerogen"
)

const testSpeciesCSV = `name,a,ea,proportion,delta_h,molar_mass
Type1,1e13,47.8,50,-500000,0.3
Type2,2e13,52.6,50,-450000,0.25
`

// setTestConfig configures a short simulation of a small sphere that
// writes its output to dir.
func setTestConfig(t *testing.T, dir string) {
	t.Helper()
	speciesFile := filepath.Join(dir, "species.csv")
	if err := os.WriteFile(speciesFile, []byte(testSpeciesCSV), 0644); err != nil {
		t.Fatal(err)
	}
	Cfg.Set("Geometry", 1)
	Cfg.Set("Sphere.Radius", 1000.0)
	Cfg.Set("Sphere.Nodes", 5)
	Cfg.Set("HeatingTime", 2.0)
	Cfg.Set("TimestepsPerSecond", 1000)
	Cfg.Set("HeatingRate", 60.0)
	Cfg.Set("Cooling", false)
	Cfg.Set("Conductivity.Fixed", false)
	Cfg.Set("HeatCapacity.Fixed", false)
	Cfg.Set("Chemistry", true)
	Cfg.Set("SpeciesFile", speciesFile)
	Cfg.Set("OutputDir", filepath.Join(dir, "output"))
	Cfg.Set("OutputVariables", map[string]string{"TC": "Temperature - 273.15"})
	Cfg.Set("SnapshotFile", filepath.Join(dir, "snapshot.ncf"))
	Cfg.Set("LogFile", "")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	setTestConfig(t, dir)
	out := new(bytes.Buffer)
	Root.SetOutput(out)
	Root.SetArgs([]string{"run"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	outputDir := filepath.Join(dir, "output")

	if !strings.Contains(out.String(), "kerogen completed successfully") {
		t.Errorf("unexpected command output:\n%s", out.String())
	}
	log, err := os.ReadFile(filepath.Join(outputDir, "kerogen.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(log), "heating phase finished after 2000 steps") {
		t.Errorf("log is missing the phase change:\n%s", log)
	}

	for _, name := range []string{"Temperature", "HeatCapacity", "Conductivity",
		"C_Type1", "C_Type2", "TC"} {
		b, err := os.ReadFile(filepath.Join(outputDir, name+".csv"))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		// Two header rows, then t = 0, 1 and 2 s.
		lines := strings.Split(strings.TrimSpace(string(b)), "\n")
		if len(lines) != 5 {
			t.Errorf("%s: have %d rows, want 5", name, len(lines))
			continue
		}
		if want := "Time (s),0,250,500,750,1000"; lines[1] != want {
			t.Errorf("%s: node positions are %q, want %q", name, lines[1], want)
		}
	}
	if _, err := os.Stat(filepath.Join(outputDir, "Diffusivity.csv")); !os.IsNotExist(err) {
		t.Errorf("diffusivity should not be written: %v", err)
	}

	var r RunRecord
	if _, err := toml.DecodeFile(filepath.Join(outputDir, RunRecordFile), &r); err != nil {
		t.Fatal(err)
	}
	if r.Version != kerogen.Version {
		t.Errorf("run record version is %s", r.Version)
	}
	if r.Config == nil || r.Config.Geometry != kerogen.Sphere || r.Config.SphereNodes != 5 {
		t.Errorf("run record config is %+v", r.Config)
	}
	if len(r.Species) != 2 || math.Abs(r.Species[1].Ea-52.6) > 1e-9 {
		t.Errorf("run record species are %+v", r.Species)
	}
	if r.OutputVariables["TC"] != "Temperature - 273.15" {
		t.Errorf("run record output variables are %v", r.OutputVariables)
	}

	f, err := os.Open(filepath.Join(dir, "snapshot.ncf"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	s, err := kerogen.LoadSnapshot(f)
	if err != nil {
		t.Fatal(err)
	}
	if s.Step != 2000 || s.Phase != kerogen.Terminated {
		t.Errorf("snapshot is at step %d in phase %v", s.Step, s.Phase)
	}
	// The surface was heated at 1 K/s for 2 s.
	if v := s.Data["Temperature"].Elements[4]; v < 295.149 || v > 295.151 {
		t.Errorf("surface temperature is %g K", v)
	}
}

func TestRunMissingSpecies(t *testing.T) {
	dir := t.TempDir()
	setTestConfig(t, dir)
	Cfg.Set("SpeciesFile", filepath.Join(dir, "missing.csv"))
	Root.SetOutput(new(bytes.Buffer))
	Root.SetArgs([]string{"run"})
	if err := Root.Execute(); err == nil {
		t.Error("expected an error")
	}
}

func TestVersion(t *testing.T) {
	out := new(bytes.Buffer)
	Root.SetOutput(out)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "kerogen v" + kerogen.Version + "\n"; out.String() != want {
		t.Errorf("have %q, want %q", out.String(), want)
	}
}
