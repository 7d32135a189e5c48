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
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(b)), "\n")
}

func TestFieldEmit(t *testing.T) {
	m, err := NewCylinderMesh(1000, 1000, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	f := NewField("Temperature", m)
	f.Fill(1.23456)
	if err := f.Emit(0, 3); err != ErrNotPrepared {
		t.Fatalf("have error %v, want ErrNotPrepared", err)
	}

	dir := t.TempDir()
	if err := f.PrepareOutput(dir); err != nil {
		t.Fatal(err)
	}
	if err := f.Emit(1.5, 3); err != nil {
		t.Fatal(err)
	}
	if err := f.CloseOutput(); err != nil {
		t.Fatal(err)
	}
	for _, sl := range m.Slices() {
		lines := readLines(t, filepath.Join(dir, OutputFileName("Temperature", sl)))
		want := []string{
			",Distance from centre (microns),,",
			"Time (s),0,500,1000",
			"1.5,1.23,1.23,1.23",
		}
		if len(lines) != len(want) {
			t.Fatalf("%s: have %d lines, want %d", sl.Name, len(lines), len(want))
		}
		for i, l := range lines {
			if l != want[i] {
				t.Errorf("%s line %d: have %q, want %q", sl.Name, i, l, want[i])
			}
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "Temperature_z=0.001m.csv")); err != nil {
		t.Errorf("top slice: %v", err)
	}
	if err := f.Emit(2, 3); err != ErrNotPrepared {
		t.Errorf("after closing: have error %v, want ErrNotPrepared", err)
	}
}

func TestOutputFileName(t *testing.T) {
	if n := OutputFileName("Temperature", Slice{}); n != "Temperature.csv" {
		t.Errorf("unnamed slice: have %s", n)
	}
	if n := OutputFileName("C_Type1", Slice{Name: "z=0.002m"}); n != "C_Type1_z=0.002m.csv" {
		t.Errorf("named slice: have %s", n)
	}
}

func TestOutputter(t *testing.T) {
	c := testConfig()
	c.Geometry = Cylinder
	c.CylinderRadius, c.CylinderHeight = 1000, 1000
	c.CylinderRadialNodes, c.CylinderAxialNodes = 3, 4
	c.HeatingTime = 2

	dir := t.TempDir()
	o, err := NewOutputter(dir, 6, map[string]string{
		"TC":   "Temperature - 273.15",
		"LogT": "log(Temperature)",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	d := &Simulation{
		InitFuncs:    []DomainManipulator{c.Initialize(nil), o.Prepare(), o.Emit()},
		RunFuncs:     c.DefaultRunFuncs(nil, nil, o.Emit()),
		CleanupFuncs: []DomainManipulator{o.EmitFinal(), o.Close()},
	}
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if err := d.Run(); err != nil {
		t.Fatal(err)
	}
	if err := d.Cleanup(); err != nil {
		t.Fatal(err)
	}

	m, err := c.Mesh()
	if err != nil {
		t.Fatal(err)
	}
	for _, sl := range m.Slices() {
		lines := readLines(t, filepath.Join(dir, OutputFileName("TC", sl)))
		// Two header rows, then t = 0, 1 and 2 s; the final state was
		// already written at 2 s.
		want := []string{"0,20,20,20", "1,20,20,20", "2,20,20,20"}
		if len(lines) != len(want)+2 {
			t.Fatalf("%s: have %d lines, want %d", sl.Name, len(lines), len(want)+2)
		}
		for i, l := range lines[2:] {
			if l != want[i] {
				t.Errorf("%s line %d: have %q, want %q", sl.Name, i, l, want[i])
			}
		}
		lines = readLines(t, filepath.Join(dir, OutputFileName("LogT", sl)))
		v := strconv.FormatFloat(math.Log(c.InitialTemperature+ZeroCelsius), 'g', 6, 64)
		if want := "2," + v + "," + v + "," + v; lines[len(lines)-1] != want {
			t.Errorf("LogT %s: have %q, want %q", sl.Name, lines[len(lines)-1], want)
		}
	}
	for _, name := range []string{"Temperature", "Conductivity", "HeatCapacity", "Diffusivity"} {
		if _, err := os.Stat(filepath.Join(dir, name+"_z=0m.csv")); err != nil {
			t.Errorf("missing output for %s: %v", name, err)
		}
	}
}

func TestOutputterOmit(t *testing.T) {
	for _, test := range []struct {
		name            string
		kFixed, cFixed  bool
		present, absent []string
	}{
		{
			name: "fixed", kFixed: true, cFixed: true,
			present: []string{"Temperature"},
			absent:  []string{"Diffusivity", "Conductivity", "HeatCapacity"},
		},
		{
			name: "conductivity fixed", kFixed: true,
			present: []string{"Temperature", "HeatCapacity"},
			absent:  []string{"Diffusivity", "Conductivity"},
		},
		{
			name:    "variable",
			present: []string{"Temperature", "Conductivity", "HeatCapacity"},
			absent:  []string{"Diffusivity"},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			c := testConfig()
			c.HeatingTime = 1
			c.Conductivity.Fixed = test.kFixed
			c.HeatCapacity.Fixed = test.cFixed
			dir := t.TempDir()
			o, err := NewOutputter(dir, 6, nil, nil)
			if err != nil {
				t.Fatal(err)
			}
			o.Omit(c.OmittedOutputs()...)
			d := &Simulation{
				InitFuncs:    []DomainManipulator{c.Initialize(nil), o.Prepare(), o.Emit()},
				CleanupFuncs: []DomainManipulator{o.Close()},
			}
			if err := d.Init(); err != nil {
				t.Fatal(err)
			}
			if err := d.Cleanup(); err != nil {
				t.Fatal(err)
			}
			sl := d.Mesh.Slices()[0]
			for _, name := range test.present {
				if _, err := os.Stat(filepath.Join(dir, OutputFileName(name, sl))); err != nil {
					t.Errorf("missing output for %s: %v", name, err)
				}
			}
			for _, name := range test.absent {
				if _, err := os.Stat(filepath.Join(dir, OutputFileName(name, sl))); !os.IsNotExist(err) {
					t.Errorf("%s should not be written: %v", name, err)
				}
			}
		})
	}
}

func TestOutputterEmitFinal(t *testing.T) {
	c := testConfig()
	c.HeatingTime = 1.1 // ends between two once-per-second writes
	dir := t.TempDir()
	o, err := NewOutputter(dir, 4, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	d := &Simulation{
		InitFuncs:    []DomainManipulator{c.Initialize(nil), o.Prepare(), o.Emit()},
		RunFuncs:     c.DefaultRunFuncs(nil, nil, o.Emit()),
		CleanupFuncs: []DomainManipulator{o.EmitFinal(), o.Close()},
	}
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if err := d.Run(); err != nil {
		t.Fatal(err)
	}
	if err := d.Cleanup(); err != nil {
		t.Fatal(err)
	}
	lines := readLines(t, filepath.Join(dir, OutputFileName("Temperature", d.Mesh.Slices()[0])))
	if len(lines) != 5 {
		t.Fatalf("have %d lines, want 5", len(lines))
	}
	if !strings.HasPrefix(lines[1], TimeHeader+",") {
		t.Errorf("second header row should hold node positions: %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "1.1,") {
		t.Errorf("final line should be written at 1.1 s: %q", lines[4])
	}
}

func TestOutputterInvalid(t *testing.T) {
	if _, err := NewOutputter(t.TempDir(), 0, nil, nil); err == nil {
		t.Error("zero precision should be an error")
	}
	if _, err := NewOutputter(t.TempDir(), 6, map[string]string{"x": "Temperature +"}, nil); err == nil {
		t.Error("unparsable expression should be an error")
	}
	for name, vars := range map[string]map[string]string{
		"undefined": {"x": "Pressure * 2"},
		"shadowing": {"Temperature": "Temperature * 2"},
	} {
		t.Run(name, func(t *testing.T) {
			o, err := NewOutputter(t.TempDir(), 6, vars, nil)
			if err != nil {
				t.Fatal(err)
			}
			d := &Simulation{InitFuncs: []DomainManipulator{testConfig().Initialize(nil), o.Prepare()}}
			if err := d.Init(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
