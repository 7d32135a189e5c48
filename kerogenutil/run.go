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
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/kerogen"
	"github.com/spatialmodel/kerogen/science/chem/speciestable"
	"github.com/spf13/cobra"
)

// RunRecordFile is the name of the file in the output directory that
// records the configuration of a run.
const RunRecordFile = "run.toml"

// RunRecord is the configuration of a run, as saved in RunRecordFile.
type RunRecord struct {
	Version         string                 `toml:"version"`
	Start           time.Time              `toml:"start"`
	Config          *kerogen.Config        `toml:"config"`
	OutputVariables map[string]string      `toml:"output_variables"`
	Species         []*speciestable.Record `toml:"species"`
}

// statusInterval is the minimum wall time between progress messages.
const statusInterval = 2 * time.Second

func newLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.Out = w
	logger.Formatter = &logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}
	return logger
}

// Run runs a simulation.
//
// CobraCommand is the cobra.Command instance where Run is called from.
// Log messages are written to its output and to LogFile.
//
// OutputDir is the existing directory that the CSV output files, and
// the record of the run configuration, are written to.
//
// OutputPrecision is the number of significant digits in output values.
//
// OutputVariables maps the names of any derived output variables to
// the expressions used to calculate them.
//
// SnapshotFile is the path that the final state of the simulation is
// saved to. No snapshot is saved if it is empty.
//
// species are the kerogen species to simulate if c.Chemistry is true.
func Run(CobraCommand *cobra.Command, LogFile, OutputDir string, OutputPrecision int,
	OutputVariables map[string]string, SnapshotFile string, c *kerogen.Config,
	species []*kerogen.Species) error {

	startTime := time.Now()

	logfile, err := os.Create(LogFile)
	if err != nil {
		return fmt.Errorf("kerogen: problem creating log file: %v", err)
	}
	logger := newLogger(io.MultiWriter(CobraCommand.OutOrStdout(), logfile))

	cPhase := make(chan kerogen.PhaseStatus)
	cLog := make(chan *kerogen.SimulationStatus)
	cLogTick := time.Tick(statusInterval)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		for msg := range cPhase {
			logger.WithFields(logrus.Fields{
				"step":    msg.Step,
				"seconds": msg.Seconds,
			}).Info(msg.String())
		}
		wg.Done()
	}()
	go func() {
		for msg := range cLog {
			select {
			case <-cLogTick:
				logger.Info(msg.String())
			default:
				runtime.Gosched()
			}
		}
		wg.Done()
	}()

	defer func() { // Wait for the logging to finish.
		close(cPhase)
		close(cLog)
		wg.Wait()
		logfile.Close()
	}()

	fail := func(err error) error {
		logger.WithError(err).Error("simulation failed")
		return err
	}

	if err := writeRunRecord(filepath.Join(OutputDir, RunRecordFile), startTime, c, OutputVariables, species); err != nil {
		return fail(err)
	}

	o, err := kerogen.NewOutputter(OutputDir, OutputPrecision, OutputVariables, nil)
	if err != nil {
		return fail(err)
	}
	o.Omit(c.OmittedOutputs()...)

	cleanupFuncs := []kerogen.DomainManipulator{o.EmitFinal(), o.Close()}
	if SnapshotFile != "" {
		f, err := os.Create(SnapshotFile)
		if err != nil {
			return fail(fmt.Errorf("kerogen: problem creating snapshot file: %v", err))
		}
		defer f.Close()
		cleanupFuncs = append(cleanupFuncs, kerogen.Save(f))
	}

	d := &kerogen.Simulation{
		InitFuncs: []kerogen.DomainManipulator{
			c.Initialize(species),
			o.Prepare(),
			o.Emit(),
		},
		RunFuncs:     c.DefaultRunFuncs(cPhase, cLog, o.Emit()),
		CleanupFuncs: cleanupFuncs,
	}

	logger.WithFields(logrus.Fields{
		"geometry": c.Geometry,
		"species":  len(species),
		"dt":       1 / float64(c.TimestepsPerSecond),
	}).Info("initializing model")
	if err = d.Init(); err != nil {
		return fail(fmt.Errorf("kerogen: problem initializing model: %v", err))
	}
	logger.WithField("nodes", d.Mesh.Size()).Info("running simulation")
	if err = d.Run(); err != nil {
		return fail(fmt.Errorf("kerogen: problem running simulation: %v", err))
	}
	logger.WithFields(logrus.Fields{
		"step":    d.Step,
		"seconds": d.Seconds(),
	}).Info("simulation finished; writing output")
	if err = d.Cleanup(); err != nil {
		return fail(fmt.Errorf("kerogen: problem shutting down model: %v", err))
	}

	logger.Infof("kerogen completed successfully in %v.", time.Since(startTime))
	return nil
}

// writeRunRecord saves the configuration of a run to path.
func writeRunRecord(path string, start time.Time, c *kerogen.Config, outputVariables map[string]string, species []*kerogen.Species) error {
	r := RunRecord{
		Version:         kerogen.Version,
		Start:           start,
		Config:          c,
		OutputVariables: outputVariables,
	}
	for _, s := range species {
		r.Species = append(r.Species, &speciestable.Record{
			Name:       s.Name(),
			A:          s.PreExponentialFactor(),
			Ea:         s.ActivationEnergy() / speciestable.JoulesPerKcal,
			Proportion: s.Proportion(),
			DeltaH:     s.DeltaH(),
			MolarMass:  s.MolarMass(),
		})
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("kerogen: problem creating run record: %v", err)
	}
	if err := toml.NewEncoder(f).Encode(r); err != nil {
		f.Close()
		return fmt.Errorf("kerogen: problem writing run record: %v", err)
	}
	return f.Close()
}
