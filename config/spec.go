package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/rvemu/core"
)

// MachineSpec describes a machine and how to run it.
//
//	ram_size: 67108864
//	extensions: imaz
//	freq_mhz: 1
//	virtual_time: false
//	max_steps: 0
//	image: build/kernel.bin
type MachineSpec struct {
	RAMSize     uint32  `yaml:"ram_size"`
	Extensions  string  `yaml:"extensions"`
	FreqMHz     float64 `yaml:"freq_mhz"`
	VirtualTime bool    `yaml:"virtual_time"`
	MaxSteps    uint64  `yaml:"max_steps"`
	Image       string  `yaml:"image"`
}

// DefaultMachineSpec returns the spec used when no file is given.
func DefaultMachineSpec() MachineSpec {
	return MachineSpec{
		RAMSize:    DefaultRAMSize,
		Extensions: string(core.DefaultExtensions),
		FreqMHz:    1,
	}
}

// LoadMachineSpecFromYAML reads a spec. Missing fields keep their
// defaults.
func LoadMachineSpecFromYAML(path string) (MachineSpec, error) {
	spec := DefaultMachineSpec()

	data, err := os.ReadFile(path)
	if err != nil {
		return spec, err
	}

	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("%s: %w", path, err)
	}

	if spec.RAMSize == 0 {
		return spec, fmt.Errorf("%s: ram_size must not be zero", path)
	}

	return spec, nil
}

// ApplyMachineSpec configures a builder from a spec.
func (b MachineBuilder) ApplyMachineSpec(spec MachineSpec) MachineBuilder {
	if spec.RAMSize != 0 {
		b = b.WithRAMSize(spec.RAMSize)
	}

	if spec.Extensions != "" {
		b = b.WithExtensions(spec.Extensions)
	}

	return b
}
