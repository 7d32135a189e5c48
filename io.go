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
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/Knetic/govaluate"
	"github.com/gocarina/gocsv"
)

// ErrNotPrepared is returned when output is emitted from a field that has
// not been bound to its output files.
var ErrNotPrepared = errors.New("kerogen: files not set up; PrepareOutput must be called before Emit")

// destination is an output file holding the values of a subset of the
// nodes of a field.
type destination struct {
	file  *os.File
	w     *gocsv.SafeCSVWriter
	nodes []int
}

// OutputFileName returns the name of the file that the values of slice s of
// field name are written to.
func OutputFileName(name string, s Slice) string {
	if s.Name == "" {
		return name + ".csv"
	}
	return name + "_" + s.Name + ".csv"
}

// TimeHeader labels the column of simulated times in output files.
const TimeHeader = "Time (s)"

// write appends one row to the file.
func (d *destination) write(row []string) error {
	if err := d.w.Write(row); err != nil {
		return fmt.Errorf("kerogen: writing %s: %v", d.file.Name(), err)
	}
	d.w.Flush()
	if err := d.w.Error(); err != nil {
		return fmt.Errorf("kerogen: writing %s: %v", d.file.Name(), err)
	}
	return nil
}

// PrepareOutput creates one output file in dir for each slice of the
// mesh, replacing any existing files. Each file starts with two header
// rows: the description of the slice axis, and TimeHeader followed by
// the position [µm] of each node along it.
func (f *Field) PrepareOutput(dir string) error {
	if f.out != nil {
		if err := f.CloseOutput(); err != nil {
			return err
		}
	}
	for _, s := range f.Mesh.Slices() {
		file, err := os.Create(filepath.Join(dir, OutputFileName(f.Name, s)))
		if err != nil {
			return fmt.Errorf("kerogen: preparing output for %s: %v", f.Name, err)
		}
		d := &destination{
			file:  file,
			w:     gocsv.DefaultCSVWriter(file),
			nodes: s.Nodes,
		}
		f.out = append(f.out, d)

		caption := make([]string, len(s.Nodes)+1)
		caption[1] = s.Axis
		distance := make([]string, len(s.Nodes)+1)
		distance[0] = TimeHeader
		for j, x := range s.Distance {
			distance[j+1] = strconv.FormatFloat(x, 'g', 6, 64)
		}
		if err := d.write(caption); err != nil {
			return err
		}
		if err := d.write(distance); err != nil {
			return err
		}
	}
	return nil
}

// Emit writes one row to each output file, holding the simulated time
// followed by the current value at each node of the slice, formatted with
// the given number of significant digits.
func (f *Field) Emit(seconds float64, precision int) error {
	if f.out == nil {
		return ErrNotPrepared
	}
	for _, d := range f.out {
		row := make([]string, len(d.nodes)+1)
		row[0] = strconv.FormatFloat(seconds, 'g', -1, 64)
		for j, n := range d.nodes {
			row[j+1] = strconv.FormatFloat(f.Ci[n], 'g', precision, 64)
		}
		if err := d.write(row); err != nil {
			return err
		}
	}
	return nil
}

// CloseOutput closes the output files of f. Emit returns ErrNotPrepared
// until PrepareOutput is called again.
func (f *Field) CloseOutput() error {
	var err error
	for _, d := range f.out {
		d.w.Flush()
		if e := d.file.Close(); e != nil && err == nil {
			err = e
		}
	}
	f.out = nil
	return err
}

// Outputter writes the tracked fields of a simulation, plus any number of
// derived variables, to CSV files once per simulated second.
//
// outputVariables maps the names of derived variables to expressions that
// define how they are calculated at each node from the tracked fields, for
// example "Conversion": "1 - C_Type1". Expressions can use the names of
// any tracked field and the functions in outputFunctions.
type Outputter struct {
	dir       string
	precision int

	outputVariables map[string]string
	outputFunctions map[string]govaluate.ExpressionFunction

	names       []string // derived variable names, sorted
	omit        map[string]bool
	expressions map[string]*govaluate.EvaluableExpression
	derived     []*Field

	lastStep int // the last step that was written
}

// NewOutputter initializes a new Outputter that writes files to dir with
// precision significant digits and adds a set of default output functions.
// Default functions include:
//
// 'exp(x)' which applies the exponential function e^x.
//
// 'log(x)' which applies the natural logarithm.
func NewOutputter(dir string, precision int, outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("kerogen: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return math.Exp(arg[0].(float64)), nil
		},
		"log": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("kerogen: got %d arguments for function 'log', but needs 1", len(arg))
			}
			return math.Log(arg[0].(float64)), nil
		},
	}
	for key, val := range outputFunctions {
		defaultOutputFuncs[key] = val
	}
	if precision < 1 {
		return nil, fmt.Errorf("kerogen: output precision must be >= 1 but is %d", precision)
	}

	o := &Outputter{
		dir:             dir,
		precision:       precision,
		outputVariables: outputVariables,
		outputFunctions: defaultOutputFuncs,
		expressions:     make(map[string]*govaluate.EvaluableExpression),
		omit:            make(map[string]bool),
		lastStep:        -1,
	}
	for name, expr := range outputVariables {
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("kerogen: output variable %s: %v", name, err)
		}
		o.expressions[name] = e
		o.names = append(o.names, name)
	}
	sort.Strings(o.names)
	return o, nil
}

// checkModelVars checks whether the variables required to calculate the
// derived variables are tracked by the simulation and that derived
// variable names do not shadow tracked fields.
func (o *Outputter) checkModelVars(d *Simulation) error {
	tracked := make(map[string]bool)
	for _, f := range d.Fields() {
		tracked[f.Name] = true
	}
	for _, name := range o.names {
		if tracked[name] {
			return fmt.Errorf("kerogen: output variable name '%s' is already a model variable", name)
		}
		for _, v := range o.expressions[name].Vars() {
			if !tracked[v] {
				return fmt.Errorf("kerogen: undefined variable name '%s' in output variable '%s'", v, name)
			}
		}
	}
	return nil
}

// Prepare returns a function that checks the output variables and creates
// the output files for every derived field and every tracked field that
// is not omitted.
func (o *Outputter) Prepare() DomainManipulator {
	return func(d *Simulation) error {
		if err := o.checkModelVars(d); err != nil {
			return err
		}
		o.derived = o.derived[:0]
		for _, name := range o.names {
			o.derived = append(o.derived, NewField(name, d.Mesh))
		}
		for _, f := range o.fields(d) {
			if err := f.PrepareOutput(o.dir); err != nil {
				return err
			}
		}
		return nil
	}
}

// Omit keeps the named tracked fields out of the output files. They can
// still be used in derived variable expressions. It must be called before
// Prepare.
func (o *Outputter) Omit(names ...string) {
	for _, n := range names {
		o.omit[n] = true
	}
}

// fields returns the fields that are written to output files.
func (o *Outputter) fields(d *Simulation) []*Field {
	var out []*Field
	for _, f := range d.Fields() {
		if !o.omit[f.Name] {
			out = append(out, f)
		}
	}
	return append(out, o.derived...)
}

// Emit returns a function that calculates the derived variables and writes
// the current values of all fields to the output files.
func (o *Outputter) Emit() DomainManipulator {
	return func(d *Simulation) error {
		if err := o.calculate(d); err != nil {
			return err
		}
		seconds := d.Seconds()
		for _, f := range o.fields(d) {
			if err := f.Emit(seconds, o.precision); err != nil {
				return err
			}
		}
		o.lastStep = d.Step
		return nil
	}
}

// EmitFinal returns a function that writes the current values of all
// fields if they have not already been written. It is meant to be run at
// cleanup, because heating can end between two once-per-second writes.
func (o *Outputter) EmitFinal() DomainManipulator {
	emit := o.Emit()
	return func(d *Simulation) error {
		if d.Step == o.lastStep {
			return nil
		}
		return emit(d)
	}
}

func (o *Outputter) calculate(d *Simulation) error {
	if len(o.derived) == 0 {
		return nil
	}
	tracked := d.Fields()
	params := make(map[string]interface{}, len(tracked))
	for i := 0; i < d.Mesh.Size(); i++ {
		for _, f := range tracked {
			params[f.Name] = f.Ci[i]
		}
		for j, name := range o.names {
			v, err := o.expressions[name].Evaluate(params)
			if err != nil {
				return fmt.Errorf("kerogen: evaluating output variable %s: %v", name, err)
			}
			fv, ok := v.(float64)
			if !ok {
				return fmt.Errorf("kerogen: output variable %s evaluates to %T, not a number", name, v)
			}
			o.derived[j].Ci[i] = fv
		}
	}
	return nil
}

// Close returns a function that closes all of the output files.
func (o *Outputter) Close() DomainManipulator {
	return func(d *Simulation) error {
		var err error
		for _, f := range o.fields(d) {
			if e := f.CloseOutput(); e != nil && err == nil {
				err = e
			}
		}
		return err
	}
}
