package jellyfish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachServersRespectsServerPorts(t *testing.T) {
	rng := SeededSource(3, 1)
	pl, err := AttachServers(58, 20, 3, rng)
	require.NoError(t, err)
	assert.Equal(t, 58, pl.NumServers())

	total := 0
	for sw, hosted := range pl.Hosted {
		assert.LessOrEqual(t, hosted, 3, "switch %d", sw)
		total += hosted
	}
	assert.Equal(t, 58, total)
	for server, sw := range pl.SwitchOf {
		assert.True(t, sw >= 0 && sw < 20, "server %d on switch %d", server, sw)
	}
}

func TestAttachServersFillsEveryPort(t *testing.T) {
	pl, err := AttachServers(30, 10, 3, SeededSource(4, 1))
	require.NoError(t, err)
	for _, hosted := range pl.Hosted {
		assert.Equal(t, 3, hosted)
	}
}

func TestAttachServersRejectsOversubscription(t *testing.T) {
	_, err := AttachServers(31, 10, 3, SeededSource(4, 1))
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = AttachServers(1, 0, 3, SeededSource(4, 1))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestPermutationTrafficSendsAndReceivesOnce(t *testing.T) {
	rng := SeededSource(6, 1)
	pl, err := AttachServers(40, 20, 4, rng)
	require.NoError(t, err)
	pairs := PermutationTraffic(pl, rng)
	require.Len(t, pairs, 40)

	sent := make([]int, 20)
	received := make([]int, 20)
	for _, tp := range pairs {
		sent[tp.Src] += 1
		received[tp.Dst] += 1
	}
	assert.Equal(t, pl.Hosted, sent)
	assert.Equal(t, pl.Hosted, received)
}

func TestPermutationTrafficHasNoSelfTraffic(t *testing.T) {
	// one server per switch, so a same-switch pair would mean a server sending to itself
	rng := SeededSource(7, 1)
	pl, err := AttachServers(15, 15, 1, rng)
	require.NoError(t, err)
	for _, tp := range PermutationTraffic(pl, rng) {
		assert.False(t, tp.SameSwitch())
	}

	single, err := AttachServers(1, 3, 1, rng)
	require.NoError(t, err)
	assert.Empty(t, PermutationTraffic(single, rng))
}

func TestAllToAllTraffic(t *testing.T) {
	pl, err := AttachServers(6, 3, 2, SeededSource(8, 1))
	require.NoError(t, err)
	pairs := AllToAllTraffic(pl)
	assert.Len(t, pairs, 30)

	same := 0
	for _, tp := range pairs {
		if tp.SameSwitch() {
			same += 1
		}
	}
	// every switch hosts two servers, each sending to the other
	assert.Equal(t, 6, same)
}

func TestGenerateTraffic(t *testing.T) {
	rng := SeededSource(9, 1)
	pl, err := AttachServers(8, 4, 2, rng)
	require.NoError(t, err)

	pairs, err := GenerateTraffic(PermutationPattern, pl, rng)
	require.NoError(t, err)
	assert.Len(t, pairs, 8)

	pairs, err = GenerateTraffic(AllToAllPattern, pl, rng)
	require.NoError(t, err)
	assert.Len(t, pairs, 56)

	_, err = GenerateTraffic("incast", pl, rng)
	assert.ErrorIs(t, err, ErrConfiguration)
}
