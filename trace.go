package jellyfish

// trace.go records the mutations the topology builder performs, for post-run inspection
// of how a graph (or a stall) came about

import (
	"encoding/json"
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"path"
)

// TraceOp names the kind of builder mutation a trace record describes
type TraceOp int

const (
	ConnectOp TraceOp = iota
	DisconnectOp
	RewireOp
	StallOp
)

var traceOpToStr map[TraceOp]string = map[TraceOp]string{ConnectOp: "connect", DisconnectOp: "disconnect",
	RewireOp: "rewire", StallOp: "stall"}

func (op TraceOp) String() string {
	return traceOpToStr[op]
}

// TraceInst is one builder mutation. A and B are the switches involved,
// -1 when the operation does not name them.
type TraceInst struct {
	Step int    `json:"step" yaml:"step"`
	Op   string `json:"op" yaml:"op"`
	A    int    `json:"a" yaml:"a"`
	B    int    `json:"b" yaml:"b"`
}

// BuildTrace gathers the mutations of every build attempt of one experiment
type BuildTrace struct {
	// experiment uses trace
	InUse bool `json:"inuse" yaml:"inuse"`

	// name of experiment
	ExpName string `json:"expname" yaml:"expname"`

	// trace records, keyed by build attempt
	Traces map[int][]TraceInst `json:"traces" yaml:"traces"`

	step int
}

// CreateBuildTrace is a constructor. It saves the name of the experiment
// and a flag indicating whether the trace is active.  Calls to AddEvent are made
// unconditionally by the builder, and do nothing when the trace is inactive (or nil).
func CreateBuildTrace(expName string, active bool) *BuildTrace {
	bt := new(BuildTrace)
	bt.InUse = active
	bt.ExpName = expName
	bt.Traces = make(map[int][]TraceInst)
	return bt
}

// Active tells the caller whether the trace is actively being used
func (bt *BuildTrace) Active() bool {
	return bt != nil && bt.InUse
}

// AddEvent appends a record of op on switches a and b to the trace of attempt
func (bt *BuildTrace) AddEvent(attempt int, op TraceOp, a, b int) {
	// return if we aren't using the trace
	if !bt.Active() {
		return
	}
	bt.step += 1
	bt.Traces[attempt] = append(bt.Traces[attempt], TraceInst{Step: bt.step, Op: op.String(), A: a, B: b})
}

// Events returns the records of attempt, in the order they were made
func (bt *BuildTrace) Events(attempt int) []TraceInst {
	if bt == nil {
		return nil
	}
	return bt.Traces[attempt]
}

// WriteToFile stores the trace to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func (bt *BuildTrace) WriteToFile(filename string) error {
	if !bt.Active() {
		return nil
	}
	return writeDescFile(filename, bt)
}

// writeDescFile serializes desc into filename, as yaml or json depending on the extension
func writeDescFile(filename string, desc any) error {
	pathExt := path.Ext(filename)
	var bytes []byte
	var merr error

	switch pathExt {
	case ".yaml", ".YAML", ".yml":
		bytes, merr = yaml.Marshal(desc)
	case ".json", ".JSON":
		bytes, merr = json.MarshalIndent(desc, "", "\t")
	default:
		return fmt.Errorf("file %s: extension %q is neither yaml nor json", filename, pathExt)
	}
	if merr != nil {
		return merr
	}

	return os.WriteFile(filename, bytes, 0o644)
}
