package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	for _, valid := range []string{"to-local", "to-remote", "both"} {
		d, err := ParseDirection(valid)
		require.NoError(t, err)
		assert.Equal(t, Direction(valid), d)
	}

	_, err := ParseDirection("up")
	assert.Error(t, err)
}

func TestDirectionFlags(t *testing.T) {
	assert.True(t, ToLocal.PullEnabled())
	assert.False(t, ToLocal.PushEnabled())

	assert.False(t, ToRemote.PullEnabled())
	assert.True(t, ToRemote.PushEnabled())

	assert.True(t, Both.PullEnabled())
	assert.True(t, Both.PushEnabled())
}

func TestReportHasFailures(t *testing.T) {
	clean := Report{
		"train": {Stats: Stats{Success: 3, Total: 3}},
	}
	assert.False(t, clean.HasFailures())

	failedTransfer := Report{
		"train": {Stats: Stats{Success: 2, Failed: 1, Total: 3}},
	}
	assert.True(t, failedTransfer.HasFailures())

	abandoned := Report{
		"train": {Err: "remote unreachable"},
	}
	assert.True(t, abandoned.HasFailures())
}

func TestStatsMerge(t *testing.T) {
	s := Stats{Success: 1, Failed: 2, Total: 3}
	s.Merge(Stats{Success: 10, Failed: 20, Total: 30})

	assert.Equal(t, Stats{Success: 11, Failed: 22, Total: 33}, s)
}
