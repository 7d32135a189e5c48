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
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spatialmodel/kerogen"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Profile is the value at each node of an output file at one time.
type Profile struct {
	Seconds float64
	Values  []float64
}

// Profiles is the content of an output file: the direction its nodes
// run, the position of each node along it [µm], and one profile per row.
type Profiles struct {
	Axis     string
	Distance []float64
	Rows     []Profile
}

// ReadProfiles reads an output file written by a simulation. The file
// starts with a caption row naming the axis and a row holding the node
// positions.
func ReadProfiles(r io.Reader) (*Profiles, error) {
	rows, err := gocsv.DefaultCSVReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("kerogen: reading profiles: %v", err)
	}
	if len(rows) < 2 || len(rows[0]) < 2 || rows[1][0] != kerogen.TimeHeader {
		return nil, fmt.Errorf("kerogen: reading profiles: missing header rows")
	}
	o := &Profiles{
		Axis:     rows[0][1],
		Distance: make([]float64, len(rows[1])-1),
		Rows:     make([]Profile, len(rows)-2),
	}
	for j, v := range rows[1][1:] {
		if o.Distance[j], err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("kerogen: reading profiles: node positions: %v", err)
		}
	}
	for i, row := range rows[2:] {
		p := Profile{Values: make([]float64, len(row)-1)}
		if p.Seconds, err = strconv.ParseFloat(row[0], 64); err != nil {
			return nil, fmt.Errorf("kerogen: reading profiles: row %d: %v", i+2, err)
		}
		for j, v := range row[1:] {
			if p.Values[j], err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("kerogen: reading profiles: row %d: %v", i+2, err)
			}
		}
		o.Rows[i] = p
	}
	return o, nil
}

// SelectProfiles returns the profile closest in time to each of the
// given times, or the last profile if times is empty.
func SelectProfiles(profiles []Profile, times []float64) []Profile {
	if len(profiles) == 0 {
		return nil
	}
	if len(times) == 0 {
		return profiles[len(profiles)-1:]
	}
	o := make([]Profile, len(times))
	for i, t := range times {
		best := 0
		for j, p := range profiles {
			if math.Abs(p.Seconds-t) < math.Abs(profiles[best].Seconds-t) {
				best = j
			}
		}
		o[i] = profiles[best]
	}
	return o
}

// Plot creates an image at outFile of the profiles in the output file
// named field in outputDir at each of the given simulated times.
func Plot(outputDir, field, outFile string, times []float64) error {
	f, err := os.Open(filepath.Join(outputDir, field))
	if err != nil {
		return fmt.Errorf("kerogen: plotting: %v", err)
	}
	defer f.Close()
	all, err := ReadProfiles(f)
	if err != nil {
		return err
	}
	profiles := SelectProfiles(all.Rows, times)
	if len(profiles) == 0 {
		return fmt.Errorf("kerogen: plotting: %s has no output", field)
	}

	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("kerogen: plotting: %v", err)
	}
	p.Title.Text = strings.TrimSuffix(field, filepath.Ext(field))
	p.X.Label.Text = all.Axis
	p.Y.Label.Text = "Value"

	var lines []interface{}
	for _, prof := range profiles {
		xy := make(plotter.XYs, len(prof.Values))
		for i, v := range prof.Values {
			xy[i].X = all.Distance[i]
			xy[i].Y = v
		}
		lines = append(lines, fmt.Sprintf("%g s", prof.Seconds), xy)
	}
	if err = plotutil.AddLinePoints(p, lines...); err != nil {
		return fmt.Errorf("kerogen: plotting: %v", err)
	}
	if err = p.Save(6*vg.Inch, 4*vg.Inch, outFile); err != nil {
		return fmt.Errorf("kerogen: plotting: %v", err)
	}
	return nil
}
