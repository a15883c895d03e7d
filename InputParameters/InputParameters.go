package InputParameters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ghodss/yaml"
)

type Settings struct {
	MeshPath       string  `json:"mesh_path" toml:"mesh_path"`
	TStart         float64 `json:"tStart" toml:"tStart"`
	TEnd           float64 `json:"tEnd" toml:"tEnd"`
	NumSteps       int     `json:"num_steps" toml:"num_steps"`
	UpdateOrdering string  `json:"update_ordering" toml:"update_ordering"` // "snapshot" or "inplace"
	ParallelDegree int     `json:"parallel_degree" toml:"parallel_degree"` // Zero uses one go routine per CPU
}

type FishingGround struct {
	XRange [2]float64 `json:"x_range" toml:"x_range"`
	YRange [2]float64 `json:"y_range" toml:"y_range"`
}

type IO struct {
	LogName        string `json:"logName" toml:"logName"`
	WriteFrequency int    `json:"writeFrequency" toml:"writeFrequency"`
	RestartFile    string `json:"restartFile" toml:"restartFile"`
}

// Parameters obtained from the YAML or TOML input file
type InputParameters struct {
	Settings      Settings      `json:"Settings" toml:"Settings"`
	FishingGround FishingGround `json:"FishingGround" toml:"FishingGround"`
	IO            IO            `json:"IO" toml:"IO"`

	defined map[string]bool // "Section.key" entries present in the input
}

// RequiredInput lists the entries each section must define
var RequiredInput = map[string][]string{
	"Settings":      {"mesh_path", "tStart", "tEnd", "num_steps"},
	"FishingGround": {"x_range", "y_range"},
	"IO":            {"logName", "writeFrequency"},
}

// Parse reads YAML input
func (ip *InputParameters) Parse(data []byte) (err error) {
	var (
		sections map[string]map[string]interface{}
	)
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	if err = yaml.Unmarshal(data, &sections); err != nil {
		return
	}
	ip.defined = make(map[string]bool)
	for section, entries := range sections {
		for key := range entries {
			ip.defined[section+"."+key] = true
		}
	}
	return
}

// ParseTOML reads TOML input
func (ip *InputParameters) ParseTOML(data []byte) (err error) {
	var (
		md toml.MetaData
	)
	if md, err = toml.Decode(string(data), ip); err != nil {
		return
	}
	ip.defined = make(map[string]bool)
	for _, key := range md.Keys() {
		if len(key) == 2 {
			ip.defined[key[0]+"."+key[1]] = true
		}
	}
	return
}

// Validate reports every section missing required entries
func (ip *InputParameters) Validate() (err error) {
	var (
		sections []string
		missing  []string
	)
	for section := range RequiredInput {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	for _, section := range sections {
		for _, key := range RequiredInput[section] {
			if !ip.defined[section+"."+key] {
				missing = append(missing, section+"."+key)
			}
		}
	}
	if len(missing) != 0 {
		return fmt.Errorf("missing required entries: %s", strings.Join(missing, ", "))
	}
	if ip.Settings.NumSteps <= 0 {
		return fmt.Errorf("Settings.num_steps must be positive, have %d", ip.Settings.NumSteps)
	}
	if ip.Settings.TEnd < ip.Settings.TStart {
		return fmt.Errorf("Settings.tEnd %v is before Settings.tStart %v", ip.Settings.TEnd, ip.Settings.TStart)
	}
	return
}

func (ip *InputParameters) Print() {
	fmt.Printf("[%s]\t\t= Mesh File\n", ip.Settings.MeshPath)
	fmt.Printf("%8.5f\t\t= tStart\n", ip.Settings.TStart)
	fmt.Printf("%8.5f\t\t= tEnd\n", ip.Settings.TEnd)
	fmt.Printf("[%d]\t\t\t= Num Steps\n", ip.Settings.NumSteps)
	if ip.Settings.UpdateOrdering != "" {
		fmt.Printf("[%s]\t\t= Update Ordering\n", ip.Settings.UpdateOrdering)
	}
	fmt.Printf("x %v, y %v\t= Fishing Ground\n", ip.FishingGround.XRange, ip.FishingGround.YRange)
	fmt.Printf("[%s]\t\t= Log Name\n", ip.IO.LogName)
	fmt.Printf("[%d]\t\t\t= Write Frequency\n", ip.IO.WriteFrequency)
	if ip.IO.RestartFile != "" {
		fmt.Printf("[%s]\t= Restart File\n", ip.IO.RestartFile)
	}
}

// ReadInputFile parses and validates an input file, TOML for a .toml extension and YAML otherwise
func ReadInputFile(fileName string) (ip *InputParameters, err error) {
	var (
		data []byte
	)
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	ip = &InputParameters{}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".toml":
		err = ip.ParseTOML(data)
	default:
		err = ip.Parse(data)
	}
	if err == nil {
		err = ip.Validate()
	}
	if err != nil {
		return nil, fmt.Errorf("input file %s: %w", fileName, err)
	}
	return
}
