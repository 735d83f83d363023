package jellyfish

// desc.go holds the serializable description of an experiment: the topology parameters,
// the server placement, the traffic pattern and the bounds used while building and analysing.

import (
	"encoding/json"
	"fmt"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	"os"
	"sync"
)

// An ExperimentDesc describes one run. Zero values of the bound fields mean "use the default".
type ExperimentDesc struct {
	// Name is an identifier for the experiment, carried into traces and reports
	Name string `json:"name" yaml:"name" validate:"required"`

	// number of switches and the ports of each used for switch-switch links
	Switches    int `json:"switches" yaml:"switches" validate:"min=2"`
	SwitchPorts int `json:"switchports" yaml:"switchports" validate:"min=1,ltfield=Switches"`

	// number of servers and the ports of each switch reserved for servers
	Servers     int `json:"servers" yaml:"servers" validate:"min=0"`
	ServerPorts int `json:"serverports" yaml:"serverports" validate:"min=0"`

	// Traffic selects the server-level pattern, "permutation" (default) or "all-to-all"
	Traffic string `json:"traffic" yaml:"traffic" validate:"omitempty,oneof=permutation all-to-all"`

	// Seed makes the run reproducible when non-zero
	Seed int64 `json:"seed" yaml:"seed"`

	Workers          int `json:"workers" yaml:"workers" validate:"min=0"`
	MaxBuildAttempts int `json:"maxbuildattempts" yaml:"maxbuildattempts" validate:"min=0"`
	MaxRewires       int `json:"maxrewires" yaml:"maxrewires" validate:"min=0"`
	StepBudget       int `json:"stepbudget" yaml:"stepbudget" validate:"min=0"`
}

// DefaultExperimentDesc returns the parameters of the Jellyfish figure 9 link-load experiment:
// 212 switches with 13 switch links each, 686 servers, 23 server ports per switch
func DefaultExperimentDesc() *ExperimentDesc {
	return &ExperimentDesc{
		Name:        "figure9",
		Switches:    212,
		SwitchPorts: 13,
		Servers:     686,
		ServerPorts: 23,
		Traffic:     PermutationPattern,
	}
}

var (
	descValidate     *validator.Validate
	descValidateOnce sync.Once
)

// experimentValidator returns the validator shared by all ExperimentDesc checks
func experimentValidator() *validator.Validate {
	descValidateOnce.Do(func() {
		descValidate = validator.New(validator.WithRequiredStructEnabled())
		descValidate.RegisterStructValidation(func(sl validator.StructLevel) {
			xd := sl.Current().Interface().(ExperimentDesc)
			if xd.Servers > xd.Switches*xd.ServerPorts {
				sl.ReportError(xd.Servers, "Servers", "servers", "servercapacity", "")
			}
		}, ExperimentDesc{})
	})
	return descValidate
}

// Validate checks the description, returning an error wrapping ErrConfiguration on failure
func (xd *ExperimentDesc) Validate() error {
	if err := experimentValidator().Struct(xd); err != nil {
		return fmt.Errorf("experiment %q: %w: %w", xd.Name, ErrConfiguration, err)
	}
	return nil
}

// Options translates the bounds of the description into Options
func (xd *ExperimentDesc) Options() []Option {
	opts := make([]Option, 0)
	if xd.Seed != 0 {
		opts = append(opts, WithSeed(xd.Seed))
	}
	if xd.Workers > 0 {
		opts = append(opts, WithWorkers(xd.Workers))
	}
	if xd.MaxBuildAttempts > 0 {
		opts = append(opts, WithMaxBuildAttempts(xd.MaxBuildAttempts))
	}
	if xd.MaxRewires > 0 {
		opts = append(opts, WithMaxRewires(xd.MaxRewires))
	}
	if xd.StepBudget > 0 {
		opts = append(opts, WithStepBudget(xd.StepBudget))
	}
	return opts
}

// WriteToFile stores the ExperimentDesc struct to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func (xd *ExperimentDesc) WriteToFile(filename string) error {
	return writeDescFile(filename, xd)
}

// ReadExperimentDesc deserializes a byte slice holding a representation of an ExperimentDesc struct.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read
// to acquire them.  A deserialized representation is returned, or an error if one is generated
// from a file read or the deserialization.
func ReadExperimentDesc(filename string, useYAML bool, dict []byte) (*ExperimentDesc, error) {
	var err error

	// if the dict slice of bytes is empty we get them from the file whose name is an argument
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	example := ExperimentDesc{}

	if useYAML {
		err = yaml.Unmarshal(dict, &example)
	} else {
		err = json.Unmarshal(dict, &example)
	}

	if err != nil {
		return nil, err
	}

	return &example, nil
}
