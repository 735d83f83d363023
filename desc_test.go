package jellyfish

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallDescYAML = `
name: small
switches: 20
switchports: 4
servers: 40
serverports: 3
traffic: all-to-all
seed: 17
workers: 2
`

func TestReadExperimentDescYAML(t *testing.T) {
	xd, err := ReadExperimentDesc("", true, []byte(smallDescYAML))
	require.NoError(t, err)
	assert.Equal(t, "small", xd.Name)
	assert.Equal(t, 20, xd.Switches)
	assert.Equal(t, 4, xd.SwitchPorts)
	assert.Equal(t, 40, xd.Servers)
	assert.Equal(t, 3, xd.ServerPorts)
	assert.Equal(t, AllToAllPattern, xd.Traffic)
	assert.Equal(t, int64(17), xd.Seed)
	assert.NoError(t, xd.Validate())
	assert.Len(t, xd.Options(), 2)
}

func TestReadExperimentDescJSON(t *testing.T) {
	dict := []byte(`{"name":"j","switches":10,"switchports":3,"servers":5,"serverports":1}`)
	xd, err := ReadExperimentDesc("", false, dict)
	require.NoError(t, err)
	assert.Equal(t, 10, xd.Switches)
	assert.NoError(t, xd.Validate())
	assert.Empty(t, xd.Options())

	_, err = ReadExperimentDesc("", false, []byte(`{"switches":`))
	assert.Error(t, err)
	_, err = ReadExperimentDesc(filepath.Join(t.TempDir(), "missing.yaml"), true, nil)
	assert.Error(t, err)
}

func TestExperimentDescValidation(t *testing.T) {
	assert.NoError(t, DefaultExperimentDesc().Validate())

	tests := []struct {
		name   string
		modify func(xd *ExperimentDesc)
	}{
		{"no name", func(xd *ExperimentDesc) { xd.Name = "" }},
		{"one switch", func(xd *ExperimentDesc) { xd.Switches = 1; xd.SwitchPorts = 1 }},
		{"ports not below switches", func(xd *ExperimentDesc) { xd.SwitchPorts = xd.Switches }},
		{"no ports", func(xd *ExperimentDesc) { xd.SwitchPorts = 0 }},
		{"too many servers", func(xd *ExperimentDesc) { xd.Servers = xd.Switches*xd.ServerPorts + 1 }},
		{"unknown traffic", func(xd *ExperimentDesc) { xd.Traffic = "incast" }},
		{"negative workers", func(xd *ExperimentDesc) { xd.Workers = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xd := DefaultExperimentDesc()
			tt.modify(xd)
			assert.ErrorIs(t, xd.Validate(), ErrConfiguration)
		})
	}
}

func TestExperimentDescWriteToFile(t *testing.T) {
	dir := t.TempDir()
	xd := DefaultExperimentDesc()
	xd.Seed = 5

	yamlFile := filepath.Join(dir, "exp.yaml")
	require.NoError(t, xd.WriteToFile(yamlFile))
	back, err := ReadExperimentDesc(yamlFile, true, nil)
	require.NoError(t, err)
	assert.Equal(t, xd, back)

	jsonFile := filepath.Join(dir, "exp.json")
	require.NoError(t, xd.WriteToFile(jsonFile))
	back, err = ReadExperimentDesc(jsonFile, false, nil)
	require.NoError(t, err)
	assert.Equal(t, xd, back)

	assert.Error(t, xd.WriteToFile(filepath.Join(dir, "exp.txt")))
}
