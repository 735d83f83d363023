package jellyfish

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTraceInactive(t *testing.T) {
	bt := CreateBuildTrace("off", false)
	bt.AddEvent(1, ConnectOp, 0, 1)
	assert.False(t, bt.Active())
	assert.Empty(t, bt.Events(1))
	assert.NoError(t, bt.WriteToFile(filepath.Join(t.TempDir(), "never.yaml")))

	var none *BuildTrace
	none.AddEvent(1, ConnectOp, 0, 1)
	assert.False(t, none.Active())
	assert.Nil(t, none.Events(1))
}

func TestBuildTraceRecordsSteps(t *testing.T) {
	bt := CreateBuildTrace("on", true)
	bt.AddEvent(1, ConnectOp, 0, 1)
	bt.AddEvent(1, StallOp, -1, -1)
	bt.AddEvent(2, ConnectOp, 1, 2)

	assert.Equal(t, []TraceInst{{Step: 1, Op: "connect", A: 0, B: 1}, {Step: 2, Op: "stall", A: -1, B: -1}}, bt.Events(1))
	assert.Equal(t, []TraceInst{{Step: 3, Op: "connect", A: 1, B: 2}}, bt.Events(2))

	filename := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, bt.WriteToFile(filename))
	bytes, err := os.ReadFile(filename)
	require.NoError(t, err)
	back := BuildTrace{}
	require.NoError(t, json.Unmarshal(bytes, &back))
	assert.Equal(t, "on", back.ExpName)
	assert.Len(t, back.Traces[1], 2)
}

func TestTraceOpNames(t *testing.T) {
	assert.Equal(t, "connect", ConnectOp.String())
	assert.Equal(t, "disconnect", DisconnectOp.String())
	assert.Equal(t, "rewire", RewireOp.String())
	assert.Equal(t, "stall", StallOp.String())
	assert.Equal(t, "rewire", rewirePhase.String())
}
