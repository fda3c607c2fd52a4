package task

import (
	"testing"

	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/peer"
	"github.com/nm-morais/go-golem/pkg/serialization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTaskDefRoundTrip(t *testing.T) {
	def := &ComputeTaskDef{
		TaskID:           "t-1",
		SubtaskID:        "st-1",
		Deadline:         1700000000.5,
		SrcCode:          "print('hi')",
		ExtraData:        serialization.Map{{Key: "frames", Value: []serialization.Value{int64(1), int64(2)}}},
		ShortDescription: "render",
		ReturnAddress:    "10.0.0.1",
		ReturnPort:       40102,
		KeyID:            "key",
		TaskOwner:        &peer.NodeInfo{Name: "owner", PubAddr: "1.2.3.4", P2PPubPort: 1},
		WorkingDirectory: "/tmp/work",
		Performance:      1234.5,
		Environment:      "BLENDER",
		DockerImages:     []string{"golem/blender:1.3"},
	}
	v, err := def.MarshalCanonical()
	require.NoError(t, err)
	raw, err := serialization.Encode(v)
	require.NoError(t, err)
	decoded, err := serialization.Decode(raw)
	require.NoError(t, err)

	got := &ComputeTaskDef{}
	require.NoError(t, got.UnmarshalCanonical(decoded))
	assert.Equal(t, def.TaskOwner, got.TaskOwner)
	assert.True(t, serialization.Equal(def.ExtraData, got.ExtraData))
	got.ExtraData, def.ExtraData = nil, nil
	got.TaskOwner, def.TaskOwner = nil, nil
	assert.Equal(t, def, got)
}

func TestComputeTaskDefRejects(t *testing.T) {
	d := &ComputeTaskDef{}
	assert.True(t, errors.Is(d.UnmarshalCanonical([]serialization.Value{}), errors.ErrDecode))
	assert.True(t, errors.Is(d.UnmarshalCanonical(serialization.Map{{Key: "return_port", Value: int64(-1)}}), errors.ErrDecode))
}

func TestTaskHeaders(t *testing.T) {
	headers := []TaskHeader{
		{TaskID: "a", TaskOwnerKeyID: "k", Deadline: 10, SubtaskTimeout: 2.5, Environment: "DEFAULT", MinVersion: "0.3", MaxPrice: 100},
		{TaskID: "b", TaskOwner: &peer.NodeInfo{Name: "owner"}},
	}
	maps, err := HeadersToMaps(headers)
	require.NoError(t, err)
	back, err := HeadersFromMaps(maps)
	require.NoError(t, err)
	assert.Equal(t, headers, back)

	_, err = HeadersFromMaps([]serialization.Map{{{Key: "deadline", Value: "soon"}}})
	assert.True(t, errors.Is(err, errors.ErrDecode))
}
