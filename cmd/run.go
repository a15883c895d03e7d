/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/oilspill/InputParameters"
	"github.com/notargets/oilspill/mesh"
	"github.com/notargets/oilspill/model_problems/OilSpill2D"
	"github.com/notargets/oilspill/readfiles"
	"github.com/notargets/oilspill/solutionio"
	"github.com/notargets/oilspill/summary"
	"github.com/notargets/oilspill/visualization"
)

const (
	SolutionFileName = "solution.json"
	PlotFileName     = "final_plot.png"
	VideoFileName    = "simulation_video.avi"
)

type RunConfig struct {
	InputFile     string
	ResultsRoot   string // Results go to ResultsRoot/<input name>_results
	StoreSolution bool
	Plot          bool
	Video         bool
	LogSummary    bool
	Profile       bool
	StartStep     int // Restart step requested, negative uses the last stored step
	Verbose       bool
}

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the oil spill simulation described by an input file",
	Long: `Run the oil spill simulation described by an input file (TOML or YAML), optionally
restarting from a stored solution, then store, plot, animate and summarize the result`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		rc := &RunConfig{
			InputFile:     viper.GetString("input"),
			ResultsRoot:   viper.GetString("results"),
			StoreSolution: viper.GetBool("store-solution"),
			Plot:          viper.GetBool("plot"),
			Video:         viper.GetBool("video"),
			LogSummary:    viper.GetBool("log-summary"),
			Profile:       viper.GetBool("profile"),
			StartStep:     viper.GetInt("start-step"),
			Verbose:       !viper.GetBool("quiet"),
		}
		var ip *InputParameters.InputParameters
		if ip, err = processInput(rc.InputFile); err != nil {
			return
		}
		if rc.Verbose {
			ip.Print()
		}
		_, err = Run(rc, ip)
		return
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	flags := RunCmd.Flags()
	flags.StringP("input", "i", "configs/input.toml", "input parameters file, TOML or YAML")
	flags.String("results", "results", "directory holding the results of each input file")
	flags.Bool("store-solution", false, "store the solution history as JSON")
	flags.Bool("plot", false, "plot the final oil distribution")
	flags.Bool("video", false, "create an oil distribution video")
	flags.Bool("log-summary", false, "log the oil in the fishing ground at each step")
	flags.Bool("profile", false, "write a CPU profile of the solve to the results directory")
	flags.Int("start-step", -1, "step to restart from when the input names a restart file")
	flags.BoolP("quiet", "q", false, "only report errors")
	for _, name := range []string{"input", "results", "store-solution", "plot", "video",
		"log-summary", "profile", "start-step", "quiet"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func processInput(inputFile string) (ip *InputParameters.InputParameters, err error) {
	if len(inputFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-i, --input)")
		fmt.Printf("Example File:%s\n", exampleInput)
		return
	}
	return InputParameters.ReadInputFile(inputFile)
}

var exampleInput = `
########################################
[Settings]
mesh_path = "meshes/bay.msh"
tStart = 0.0
tEnd = 0.5
num_steps = 500

[FishingGround]
x_range = [0.0, 0.45]
y_range = [0.0, 0.2]

[IO]
logName = "logfile.log"
writeFrequency = 5
########################################
`

// ResultsDir creates and returns the results directory of an input file
func ResultsDir(root, inputFile string) (dir string, err error) {
	name := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	dir = filepath.Join(root, name+"_results")
	err = os.MkdirAll(dir, 0755)
	return
}

// NewFileLogger returns a logger writing to fileName, the caller closes the file
func NewFileLogger(fileName string) (logger *logrus.Logger, file *os.File, err error) {
	if file, err = os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
		return
	}
	logger = logrus.New()
	logger.SetOutput(file)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	return
}

func readMesh(meshFile string, verbose bool) (m *mesh.Mesh, err error) {
	var (
		rm *readfiles.RawMesh
	)
	if rm, err = readfiles.ReadMeshFile(meshFile); err != nil {
		return
	}
	if m, err = rm.NewMesh(); err != nil {
		return nil, fmt.Errorf("building mesh from %s: %w", meshFile, err)
	}
	m.ComputeAllNeighbors()
	if verbose {
		fmt.Printf("Using mesh from file: [%s]\n", meshFile)
		m.PrintStatistics()
	}
	return
}

// warnOpenEdges logs triangle edges closed by no other cell, no flux crosses them
func warnOpenEdges(m *mesh.Mesh, log logrus.FieldLogger) (nOpen int) {
	open := m.OpenEdges()
	if nOpen = len(open); nOpen == 0 {
		return
	}
	log.WithFields(logrus.Fields{
		"open_edges": nOpen,
		"first":      open[0].String(),
	}).Warn("mesh has triangle edges without a neighbor or boundary line")
	return
}

// Run executes one simulation and writes the requested outputs
func Run(rc *RunConfig, ip *InputParameters.InputParameters) (sim *OilSpill2D.Simulation, err error) {
	var (
		resultsDir string
		logger     *logrus.Logger
		logFile    *os.File
		m          *mesh.Mesh
		ordering   OilSpill2D.UpdateOrdering
	)
	if resultsDir, err = ResultsDir(rc.ResultsRoot, rc.InputFile); err != nil {
		return
	}
	if logger, logFile, err = NewFileLogger(filepath.Join(resultsDir, ip.IO.LogName)); err != nil {
		return
	}
	defer logFile.Close()
	log := logger.WithField("input", rc.InputFile)

	if ordering, err = OilSpill2D.NewUpdateOrdering(ip.Settings.UpdateOrdering); err != nil {
		return
	}
	if m, err = readMesh(ip.Settings.MeshPath, rc.Verbose); err != nil {
		log.WithError(err).Error("reading mesh")
		return
	}
	warnOpenEdges(m, log)
	sim, err = OilSpill2D.NewSimulation(m, ip.Settings.TStart, ip.Settings.TEnd, ip.Settings.NumSteps,
		OilSpill2D.WithOrdering(ordering),
		OilSpill2D.WithParallelDegree(ip.Settings.ParallelDegree),
		OilSpill2D.WithVerbose(rc.Verbose))
	if err != nil {
		return
	}
	log.WithFields(logrus.Fields{
		"cells":    m.NumCells(),
		"steps":    sim.NumSteps,
		"dt":       sim.Dt,
		"ordering": ordering.Print(),
	}).Info("simulation initialized")

	if err = restart(sim, ip.IO.RestartFile, rc.StartStep, log); err != nil {
		return
	}
	if rc.Profile {
		p := profile.Start(profile.CPUProfile, profile.ProfilePath(resultsDir), profile.Quiet)
		err = sim.Solve()
		p.Stop()
	} else {
		err = sim.Solve()
	}
	if err != nil {
		log.WithError(err).Error("solve failed")
		return
	}
	log.WithField("steps", sim.StepsCompleted()).Info("solve completed")

	if rc.StoreSolution && ip.IO.WriteFrequency != 0 {
		fileName := filepath.Join(resultsDir, SolutionFileName)
		if err = solutionio.StoreSolution(sim.History, fileName); err != nil {
			return
		}
		log.WithField("file", fileName).Info("saved solution")
	}
	if rc.Plot {
		fileName := filepath.Join(resultsDir, PlotFileName)
		if err = visualization.PlotField(m, sim.Field(), sim.Time(), "Oil Distribution", fileName); err != nil {
			return
		}
		log.WithField("file", fileName).Info("saved final plot")
	}
	if rc.Video {
		if ip.IO.WriteFrequency <= 0 {
			return sim, fmt.Errorf("a video needs a positive IO.writeFrequency, have %d", ip.IO.WriteFrequency)
		}
		fileName := filepath.Join(resultsDir, VideoFileName)
		var nFrames int
		nFrames, err = visualization.Video(m, sim.History, fileName, visualization.VideoOptions{
			FPS:      ip.IO.WriteFrequency,
			StepTime: func(step int) float64 { return sim.TStart + float64(step)*sim.Dt },
		})
		if err != nil {
			return
		}
		log.WithFields(logrus.Fields{"file": fileName, "frames": nFrames}).Info("saved video")
	}
	if rc.LogSummary {
		var r summary.Rect
		if r, err = summary.NewRect(ip.FishingGround.XRange, ip.FishingGround.YRange); err != nil {
			return
		}
		summary.LogSummary(logger, m, r, sim.History)
	}
	return
}

// restart loads the stored history, when there is one, and resumes from the step nearest
// to startStep
func restart(sim *OilSpill2D.Simulation, restartFile string, startStep int, log logrus.FieldLogger) (err error) {
	var (
		history []OilSpill2D.ScalarField
		step    int
	)
	if restartFile == "" {
		return
	}
	if _, err = os.Stat(restartFile); os.IsNotExist(err) {
		log.WithField("file", restartFile).Warn("restart file not found, starting from the initial field")
		return nil
	}
	if history, err = solutionio.LoadSolution(restartFile); err != nil {
		return
	}
	if startStep < 0 {
		startStep = len(history) - 1
	}
	if startStep > sim.NumSteps {
		startStep = sim.NumSteps
	}
	if step, err = solutionio.NearestStep(solutionio.StoredSteps(history), startStep); err != nil {
		return
	}
	if err = sim.Restart(history, step); err != nil {
		return fmt.Errorf("restart from %s: %w", restartFile, err)
	}
	log.WithFields(logrus.Fields{"file": restartFile, "step": step}).Info("Restart the simulation")
	return
}
