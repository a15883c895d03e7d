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
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notargets/oilspill/InputParameters"
	"github.com/notargets/oilspill/mesh"
	"github.com/notargets/oilspill/model_problems/OilSpill2D"
	"github.com/notargets/oilspill/solutionio"
	"github.com/notargets/oilspill/summary"
)

// SummaryCmd represents the summary command
var SummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Report the oil in the fishing ground for a stored solution",
	Long:  `Report the oil in the fishing ground of an input file for each step of a stored solution`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			inputFile, solutionFile string
		)
		if inputFile, err = cmd.Flags().GetString("input"); err != nil {
			return
		}
		if solutionFile, err = cmd.Flags().GetString("solution"); err != nil {
			return
		}
		_, err = Summarize(inputFile, solutionFile, cmd.OutOrStdout())
		return
	},
}

func init() {
	rootCmd.AddCommand(SummaryCmd)
	SummaryCmd.Flags().StringP("input", "i", "configs/input.toml", "input parameters file, TOML or YAML")
	SummaryCmd.Flags().StringP("solution", "s", "", "stored solution history (JSON)")
}

// Summarize logs the per step oil in the fishing ground of a stored solution to w
func Summarize(inputFile, solutionFile string, w io.Writer) (totals []float64, err error) {
	var (
		ip      *InputParameters.InputParameters
		m       *mesh.Mesh
		history []OilSpill2D.ScalarField
		r       summary.Rect
	)
	if len(solutionFile) == 0 {
		return nil, fmt.Errorf("must supply a solution file (-s, --solution)")
	}
	if ip, err = processInput(inputFile); err != nil {
		return
	}
	if m, err = readMesh(ip.Settings.MeshPath, false); err != nil {
		return
	}
	if history, err = solutionio.LoadSolution(solutionFile); err != nil {
		return
	}
	for step, field := range history {
		if len(field) != m.NumCells() {
			return nil, fmt.Errorf("%s step %d has %d cells, mesh %s has %d",
				solutionFile, step, len(field), ip.Settings.MeshPath, m.NumCells())
		}
	}
	if r, err = summary.NewRect(ip.FishingGround.XRange, ip.FishingGround.YRange); err != nil {
		return
	}
	if w == nil {
		w = os.Stdout
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	totals = summary.LogSummary(logger, m, r, history)
	return
}
