package InputParameters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkParameters(t *testing.T, ip *InputParameters) {
	assert.Equal(t, "meshes/bay.msh", ip.Settings.MeshPath)
	assert.Equal(t, 0., ip.Settings.TStart)
	assert.Equal(t, 0.5, ip.Settings.TEnd)
	assert.Equal(t, 500, ip.Settings.NumSteps)
	assert.Equal(t, [2]float64{0, 0.45}, ip.FishingGround.XRange)
	assert.Equal(t, [2]float64{0, 0.2}, ip.FishingGround.YRange)
	assert.Equal(t, "logfile.log", ip.IO.LogName)
	assert.Equal(t, 5, ip.IO.WriteFrequency)
}

func TestParse(t *testing.T) {
	{ // YAML
		ip := &InputParameters{}
		require.NoError(t, ip.Parse(yamlInput))
		checkParameters(t, ip)
		assert.Equal(t, "inplace", ip.Settings.UpdateOrdering)
		assert.Equal(t, 2, ip.Settings.ParallelDegree)
		assert.NoError(t, ip.Validate())
	}
	{ // TOML
		ip := &InputParameters{}
		require.NoError(t, ip.ParseTOML(tomlInput))
		checkParameters(t, ip)
		assert.Equal(t, "", ip.Settings.UpdateOrdering)
		assert.Equal(t, "", ip.IO.RestartFile)
		assert.NoError(t, ip.Validate())
	}
	{ // Malformed
		ip := &InputParameters{}
		assert.Error(t, ip.ParseTOML([]byte("[Settings\nmesh_path=")))
		assert.Error(t, ip.Parse([]byte("Settings: [unterminated")))
	}
}

func TestValidate(t *testing.T) {
	{ // Missing entries are all reported
		ip := &InputParameters{}
		require.NoError(t, ip.ParseTOML([]byte("[Settings]\nmesh_path = \"a.msh\"\ntStart = 0.0\n")))
		err := ip.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Settings.tEnd")
		assert.Contains(t, err.Error(), "Settings.num_steps")
		assert.Contains(t, err.Error(), "FishingGround.x_range")
		assert.Contains(t, err.Error(), "IO.logName")
		assert.NotContains(t, err.Error(), "Settings.mesh_path")
	}
	{ // Bad values
		ip := &InputParameters{}
		require.NoError(t, ip.ParseTOML(tomlInput))
		ip.Settings.NumSteps = 0
		assert.Error(t, ip.Validate())
		ip.Settings.NumSteps, ip.Settings.TEnd = 10, -1
		assert.Error(t, ip.Validate())
	}
}

func TestReadInputFile(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string][]byte{"input.toml": tomlInput, "input.yaml": yamlInput} {
		fileName := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(fileName, data, 0644))
		ip, err := ReadInputFile(fileName)
		require.NoError(t, err)
		checkParameters(t, ip)
	}
	{ // Valid TOML is not valid YAML here, the extension decides
		fileName := filepath.Join(dir, "input.yml")
		require.NoError(t, os.WriteFile(fileName, tomlInput, 0644))
		_, err := ReadInputFile(fileName)
		assert.Error(t, err)
	}
	_, err := ReadInputFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

var tomlInput = []byte(`# Oil spill in the bay
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
`)

var yamlInput = []byte(`Settings:
  mesh_path: meshes/bay.msh
  tStart: 0.0
  tEnd: 0.5
  num_steps: 500
  update_ordering: inplace
  parallel_degree: 2
FishingGround:
  x_range: [0.0, 0.45]
  y_range: [0.0, 0.2]
IO:
  logName: logfile.log
  writeFrequency: 5
  restartFile: results/input_results/solution.json
`)
