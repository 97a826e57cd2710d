package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// job is the content of a job file:
//
//	variables: [x, y]
//	functions:
//	  - sin(x)^2 + 0.5*y
//	  - sqrt(x*y)
//	samples:
//	  - [1, 2]
//	  - [-1, 0.5]
//	derivatives:
//	  - {function: 1, variable: x, step: 0.01}
type job struct {
	Variables   []string        `yaml:"variables" toml:"variables"`
	Functions   []string        `yaml:"functions" toml:"functions"`
	Samples     [][]float64     `yaml:"samples" toml:"samples"`
	Derivatives []derivativeJob `yaml:"derivatives" toml:"derivatives"`
	Workers     int             `yaml:"workers" toml:"workers"`
}

type derivativeJob struct {
	Function int     `yaml:"function" toml:"function"`
	Variable string  `yaml:"variable" toml:"variable"`
	Step     float64 `yaml:"step" toml:"step"`
}

const defaultStep = 0.01

func readJob(fname string) (*job, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	ret := &job{}
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".toml":
		err = toml.Unmarshal(data, ret)
	default:
		err = yaml.Unmarshal(data, ret)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read job file %s: %w", fname, err)
	}
	if err = ret.validate(); err != nil {
		return nil, fmt.Errorf("job file %s: %w", fname, err)
	}
	return ret, nil
}

func (j *job) validate() error {
	if len(j.Functions) == 0 {
		return fmt.Errorf("no functions")
	}
	for i, s := range j.Samples {
		if len(s) != len(j.Variables) {
			return fmt.Errorf("sample #%d: expected %d values, got %d", i, len(j.Variables), len(s))
		}
	}
	for i := range j.Derivatives {
		d := &j.Derivatives[i]
		if d.Function < 1 || d.Function > len(j.Functions) {
			return fmt.Errorf("derivative #%d: wrong function #%d", i, d.Function)
		}
		if j.variableIndex(d.Variable) == 0 {
			return fmt.Errorf("derivative #%d: unknown variable '%s'", i, d.Variable)
		}
		if d.Step == 0 {
			d.Step = defaultStep
		}
	}
	return nil
}

// variableIndex is 1-based, 0 if not found
func (j *job) variableIndex(name string) int {
	for i, v := range j.Variables {
		if v == name {
			return i + 1
		}
	}
	return 0
}
