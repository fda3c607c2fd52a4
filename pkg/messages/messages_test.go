package messages

import (
	"testing"

	"github.com/nm-morais/go-golem/pkg/crypto"
	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/message"
	"github.com/nm-morais/go-golem/pkg/peer"
	"github.com/nm-morais/go-golem/pkg/serialization"
	"github.com/nm-morais/go-golem/pkg/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNode(name string) *peer.NodeInfo {
	return &peer.NodeInfo{
		Name:         name,
		Key:          "key-" + name,
		PrvAddr:      "10.0.0.2",
		PubAddr:      "1.2.3.4",
		PrvPort:      40102,
		PubPort:      40102,
		P2PPrvPort:   40103,
		P2PPubPort:   40103,
		PrvAddresses: []string{"10.0.0.2", "192.168.1.2"},
		NatType:      "Full Cone",
	}
}

func testRecords() []serialization.Map {
	return []serialization.Map{
		{{Key: "address", Value: "10.0.0.1"}, {Key: "port", Value: int64(40102)}, {Key: "id", Value: "a"}},
		{{Key: "address", Value: "10.0.0.2"}, {Key: "port", Value: int64(40103)}, {Key: "id", Value: "b"}},
	}
}

// allVariants builds one populated instance of every catalog entry.
func allVariants() []message.Message {
	node := testNode("n1")
	ctd := &task.ComputeTaskDef{
		TaskID:           "t1",
		SubtaskID:        "st1",
		Deadline:         1700000000.5,
		SrcCode:          "print(1)",
		ExtraData:        serialization.Map{{Key: "frames", Value: []serialization.Value{int64(1), int64(2)}}},
		ShortDescription: "render",
		ReturnAddress:    "10.0.0.1",
		ReturnPort:       40102,
		KeyID:            "kid",
		TaskOwner:        node,
		WorkingDirectory: "/tmp/t1",
		Performance:      1200.5,
		Environment:      "Default",
		DockerImages:     []string{"golem/base:1.0"},
	}
	return []message.Message{
		NewHello(40102, "uid", "kid", node, 0.25, 14, "0.3"),
		NewRandVal(0.5),
		NewDisconnect(3),

		NewPing(),
		NewPong(),
		NewGetPeers(),
		NewPeers(testRecords()),
		NewGetTasks(),
		NewTasks(testRecords()),
		NewRemoveTask("t1"),
		NewGetResourcePeers(),
		NewResourcePeers(testRecords()),
		NewDegree(4),
		NewGossip([]serialization.Value{"a", int64(1)}),
		NewStopGossip(),
		NewLocRank("n1", serialization.Map{{Key: "rank", Value: 0.5}}),
		NewFindNode("kid"),
		NewWantToStartTaskSession(node, "c1", testNode("super")),
		NewSetTaskSession("kid", node, "c1", nil),
		NewNatHole("kid", "1.2.3.4", 40102, "c1"),
		NewNatTraverseFailure("c1"),
		NewInformAboutNatTraverseFailure("kid", "c1"),

		NewWantToComputeTask("cid", "t1", 1200.5, 1<<30, 1<<31, 4),
		NewTaskToCompute(ctd),
		NewCannotAssignTask("t1", "busy"),
		NewReportComputedTask("st1", 0, "n1", "10.0.0.1", 40102, "kid", node, "0xabc", []byte{1, 2}),
		NewGetTaskResult("st1", 2.5),
		NewTaskResult("st1", []byte("result")),
		NewGetResource("t1", serialization.Map{{Key: "files", Value: []serialization.Value{}}}),
		NewResource("st1", []byte("zip")),
		NewSubtaskResultAccepted("st1", 10),
		NewSubtaskResultRejected("st1"),
		NewDeltaParts("t1", "header", []serialization.Value{"p1", "p2"}, "cid", node, "10.0.0.1", 40102),
		NewResourceFormat(true),
		NewAcceptResourceFormat(),
		NewTaskFailure("st1", "boom"),
		NewStartSessionResponse("c1"),
		NewMiddleman(node, testNode("dest"), "c1"),
		NewJoinMiddlemanConn("kid", "c1", "dkid"),
		NewBeingMiddlemanAccepted(),
		NewMiddlemanAccepted(),
		NewMiddlemanReady(),
		NewNatPunch(node, testNode("dest"), "c1"),
		NewWaitForNatTraverse(40104),
		NewNatPunchFailure(),

		NewPushResource("res", 2),
		NewHasResource("res"),
		NewWantResource("res"),
		NewPullResource("res"),
		NewPullAnswer("res", true),
		NewSendResource("res"),

		NewPeerStatus("n1", "ok"),
		NewNewTask(serialization.Map{{Key: "name", Value: "t"}}),
		NewKillNode(),
		NewKillAllNodes(),
		NewNewNodes(3),
	}
}

func TestCatalogCoversEveryVariant(t *testing.T) {
	variants := allVariants()
	require.Len(t, variants, len(catalog))
	for i, m := range variants {
		assert.Equal(t, catalog[i].id, m.Type(), "entry %d", i)
		assert.Equal(t, m.Type(), catalog[i].factory().Type(), "factory %d", i)
	}
}

func TestCatalogIDsUnique(t *testing.T) {
	seen := map[message.ID]bool{}
	for _, id := range IDs() {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
		assert.NotEqual(t, "unassigned", id.Range())
	}
	assert.Len(t, seen, len(catalog))
}

func TestSchemasBuild(t *testing.T) {
	for _, e := range catalog {
		_, err := message.SchemaOf(e.factory())
		assert.NoError(t, err, "id %d", e.id)
	}
}

func TestRoundTripEveryVariant(t *testing.T) {
	reg := NewRegistry()
	for _, m := range allVariants() {
		raw, err := reg.Serialize(m)
		require.NoError(t, err, "type %d", m.Type())
		got, err := reg.Deserialize(raw, false)
		require.NoError(t, err, "type %d", m.Type())
		assert.Equal(t, m.Type(), got.Type())
		assert.True(t, message.Equal(m, got), "type %d", m.Type())
		assert.Equal(t, m.Timestamp(), got.Timestamp())
		assert.False(t, got.Encrypted())

		again, err := reg.Serialize(got)
		require.NoError(t, err)
		assert.Equal(t, raw, again, "type %d", m.Type())
	}
}

func TestSignedRoundTripVerifies(t *testing.T) {
	id, err := crypto.NewIdentity()
	require.NoError(t, err)
	reg := NewRegistry()
	for _, m := range allVariants() {
		signed, err := message.Sign(m, id)
		require.NoError(t, err)
		raw, err := reg.Serialize(signed)
		require.NoError(t, err)
		got, err := reg.Deserialize(raw, true)
		require.NoError(t, err)
		assert.True(t, got.Encrypted())
		ok, err := message.Verify(got, id)
		require.NoError(t, err)
		assert.True(t, ok, "type %d", m.Type())
	}
}

// mutate returns v with its first mutable scalar changed.
func mutate(v serialization.Value) (serialization.Value, bool) {
	switch t := v.(type) {
	case string:
		return t + "x", true
	case int64:
		return t + 1, true
	case float64:
		return t + 1, true
	case bool:
		return !t, true
	case []byte:
		return append(append([]byte{}, t...), 0x01), true
	case serialization.Map:
		for i, e := range t {
			if nv, ok := mutate(e.Value); ok {
				out := append(serialization.Map{}, t...)
				out[i] = serialization.Entry{Key: e.Key, Value: nv}
				return out, true
			}
		}
	case []serialization.Value:
		for i, e := range t {
			if nv, ok := mutate(e); ok {
				out := append([]serialization.Value{}, t...)
				out[i] = nv
				return out, true
			}
		}
	}
	return nil, false
}

func TestSignatureBindsFields(t *testing.T) {
	id, err := crypto.NewIdentity()
	require.NoError(t, err)
	for i, m := range allVariants() {
		schema, err := message.SchemaOf(m)
		require.NoError(t, err)
		t.Run(schema.Name(), func(t *testing.T) {
			signed, err := message.Sign(m, id)
			require.NoError(t, err)
			fields, err := message.Fields(signed)
			require.NoError(t, err)

			changed := false
			for j, e := range fields {
				if f, _ := schema.Field(e.Key.(string)); f.Marker {
					continue
				}
				if nv, ok := mutate(e.Value); ok {
					fields[j] = serialization.Entry{Key: e.Key, Value: nv}
					changed = true
					break
				}
			}
			if !changed {
				t.Skip("no mutable field")
			}

			tampered, err := message.FromFields(catalog[i].factory, message.Header{Timestamp: signed.Timestamp()}, fields)
			require.NoError(t, err)
			tampered = message.WithSignature(tampered, signed.Signature())
			ok, err := message.Verify(tampered, id)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSerializeRejectsUnreadableValues(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Serialize(NewRemoveTask("\xff\xfe"))
	assert.True(t, errors.Is(err, errors.ErrEncode))

	_, err = reg.Serialize(NewGossip(serialization.Map{{Key: "a", Value: int64(1)}, {Key: "a", Value: int64(2)}}))
	assert.True(t, errors.Is(err, errors.ErrEncode))
}

func TestPeersHashIgnoresOrder(t *testing.T) {
	records := testRecords()
	reversed := []serialization.Map{records[1], records[0]}
	shuffled := []serialization.Map{
		{{Key: "id", Value: "b"}, {Key: "address", Value: "10.0.0.2"}, {Key: "port", Value: int64(40103)}},
		{{Key: "port", Value: int64(40102)}, {Key: "id", Value: "a"}, {Key: "address", Value: "10.0.0.1"}},
	}
	want, err := message.ShortHash(NewPeers(records))
	require.NoError(t, err)
	for _, other := range []message.Message{NewPeers(reversed), NewPeers(shuffled)} {
		got, err := message.ShortHash(other)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	tasks, err := message.ShortHash(NewTasks(reversed))
	require.NoError(t, err)
	resourcePeers, err := message.ShortHash(NewResourcePeers(shuffled))
	require.NoError(t, err)
	assert.Equal(t, want, tasks)
	assert.Equal(t, want, resourcePeers)
}

func TestPeersFromInfo(t *testing.T) {
	infos := []peer.PeerInfo{
		{ID: "a", Address: "10.0.0.1", Port: 40102, Node: testNode("a")},
		{ID: "b", Address: "10.0.0.2", Port: 40103},
	}
	m, err := NewPeersFromInfo(infos)
	require.NoError(t, err)
	raw, err := NewRegistry().Serialize(m)
	require.NoError(t, err)
	got, err := NewRegistry().Deserialize(raw, false)
	require.NoError(t, err)
	back, err := got.(*Peers).PeerInfos()
	require.NoError(t, err)
	assert.Equal(t, infos, back)
}

func TestOptionalFieldsDefault(t *testing.T) {
	reg := NewRegistry()

	fields := serialization.Map{
		{Key: "NODE_INFO", Value: nil},
		{Key: "CONN_ID", Value: "c1"},
	}
	raw, err := serialization.Encode([]serialization.Value{int64(WantToStartTaskSessionMessageType), []byte{}, 1.0, fields})
	require.NoError(t, err)
	got, err := reg.Deserialize(raw, false)
	require.NoError(t, err)
	w := got.(*WantToStartTaskSession)
	assert.Nil(t, w.SuperNodeInfo)
	assert.Equal(t, "c1", w.ConnID)

	fields = serialization.Map{
		{Key: "SUB_TASK_ID", Value: "st1"},
		{Key: "RESULT_TYPE", Value: int64(0)},
		{Key: "NODE_ID", Value: "n1"},
		{Key: "ADDR", Value: "10.0.0.1"},
		{Key: "PORT", Value: int64(40102)},
		{Key: "KEY_ID", Value: "kid"},
		{Key: "NODE_INFO", Value: nil},
	}
	raw, err = serialization.Encode([]serialization.Value{int64(ReportComputedTaskMessageType), []byte{}, 1.0, fields})
	require.NoError(t, err)
	got, err = reg.Deserialize(raw, false)
	require.NoError(t, err)
	r := got.(*ReportComputedTask)
	assert.Empty(t, r.EthAccount)
	assert.Nil(t, r.ExtraData)
}

func TestMissingRequiredField(t *testing.T) {
	raw, err := serialization.Encode([]serialization.Value{
		int64(NatHoleMessageType), []byte{}, 1.0,
		serialization.Map{{Key: "KEY_ID", Value: "kid"}, {Key: "ADDR", Value: "1.2.3.4"}, {Key: "CONN_ID", Value: "c1"}},
	})
	require.NoError(t, err)
	_, err = NewRegistry().Deserialize(raw, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingField)
	var missing *errors.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "PORT", missing.Field)
}

func TestDisconnectDefaultReason(t *testing.T) {
	raw, err := serialization.Encode([]serialization.Value{
		int64(DisconnectMessageType), []byte{}, 1.0, serialization.Map{},
	})
	require.NoError(t, err)
	_, err = NewRegistry().Deserialize(raw, false)
	// the reason is required on the wire; the factory default only seeds
	// the value before decoding.
	assert.ErrorIs(t, err, errors.ErrMissingField)

	factory, ok := NewRegistry().Resolve(DisconnectMessageType)
	require.True(t, ok)
	assert.Equal(t, int64(-1), factory().(*Disconnect).Reason)
}

func TestUnknownTypeRejected(t *testing.T) {
	raw, err := serialization.Encode([]serialization.Value{int64(4000), []byte{}, 1.0, serialization.Map{}})
	require.NoError(t, err)
	_, err = NewRegistry().Deserialize(raw, false)
	assert.ErrorIs(t, err, errors.ErrUnrecognizedType)
}

func TestMiddlemanMarkersShareName(t *testing.T) {
	reg := NewRegistry()
	for _, m := range []message.Message{NewBeingMiddlemanAccepted(), NewMiddlemanAccepted(), NewMiddlemanReady()} {
		fields, err := message.Fields(m)
		require.NoError(t, err)
		assert.Equal(t, serialization.Map{{Key: "MIDDLEMAN", Value: true}}, fields)
		raw, err := reg.Serialize(m)
		require.NoError(t, err)
		got, err := reg.Deserialize(raw, false)
		require.NoError(t, err)
		assert.Equal(t, m.Type(), got.Type())
	}
}

func TestBootstrapManager(t *testing.T) {
	reg := NewRegistry()
	assert.Len(t, reg.IDs(), len(catalog))

	ids := ManagerIDs()
	assert.Equal(t, []message.ID{
		PeerStatusMessageType, NewTaskMessageType, KillNodeMessageType,
		KillAllNodesMessageType, NewNodesMessageType,
	}, ids)
}
