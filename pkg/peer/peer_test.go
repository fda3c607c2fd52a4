package peer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/serialization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNode() *NodeInfo {
	return &NodeInfo{
		Name:         "node-a",
		Key:          "12D3KooWabc",
		PrvAddr:      "10.0.0.5",
		PubAddr:      "203.0.113.7",
		PrvPort:      40102,
		PubPort:      40102,
		P2PPrvPort:   40103,
		P2PPubPort:   40103,
		PrvAddresses: []string{"10.0.0.5", "192.168.1.5"},
		NatType:      "Full Cone",
	}
}

func TestNodeInfoRoundTrip(t *testing.T) {
	n := sampleNode()
	v, err := n.MarshalCanonical()
	require.NoError(t, err)

	raw, err := serialization.Encode(v)
	require.NoError(t, err)
	decoded, err := serialization.Decode(raw)
	require.NoError(t, err)

	got := &NodeInfo{}
	require.NoError(t, got.UnmarshalCanonical(decoded))
	assert.True(t, n.Equals(got))
	assert.Equal(t, n, got)
}

func TestNodeInfoRejects(t *testing.T) {
	n := &NodeInfo{}
	assert.True(t, errors.Is(n.UnmarshalCanonical("node"), errors.ErrDecode))
	assert.True(t, errors.Is(n.UnmarshalCanonical(serialization.Map{{Key: "pub_port", Value: int64(70000)}}), errors.ErrDecode))
	assert.True(t, errors.Is(n.UnmarshalCanonical(serialization.Map{{Key: "key", Value: int64(1)}}), errors.ErrDecode))
}

func TestNodeInfoMultiaddr(t *testing.T) {
	n := sampleNode()
	m, err := n.Multiaddr()
	require.NoError(t, err)
	assert.Equal(t, "/ip4/203.0.113.7/tcp/40103", m.String())

	private, err := n.PrivateMultiaddrs()
	require.NoError(t, err)
	require.Len(t, private, 2)
	assert.Equal(t, "/ip4/192.168.1.5/tcp/40103", private[1].String())

	v6, err := ToMultiaddr("::1", 80)
	require.NoError(t, err)
	assert.Equal(t, "/ip6/::1/tcp/80", v6.String())

	dns, err := ToMultiaddr("golem.network", 443)
	require.NoError(t, err)
	assert.Equal(t, "/dns/golem.network/tcp/443", dns.String())
}

func TestNodeInfoToString(t *testing.T) {
	var n *NodeInfo
	assert.Equal(t, "<nil>", n.ToString())
	assert.Equal(t, "node-a(203.0.113.7:40103)", sampleNode().ToString())
	assert.False(t, n.Equals(sampleNode()))
}

func TestPeerInfoMaps(t *testing.T) {
	peers := []PeerInfo{
		{ID: "a", Address: "10.0.0.1", Port: 1, Node: sampleNode()},
		{ID: "b", Address: "10.0.0.2", Port: 2},
	}
	maps, err := ToMaps(peers)
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, []serialization.Value{"address", "port", "id", "node"}, maps[0].Keys())

	back, err := FromMaps(maps)
	require.NoError(t, err)
	assert.Equal(t, peers, back)

	_, err = FromMaps([]serialization.Map{{{Key: "port", Value: "x"}}})
	assert.True(t, errors.Is(err, errors.ErrDecode))
}

func TestIDs(t *testing.T) {
	a, b := NewConnID(), NewConnID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
	_, err = uuid.Parse(NewClientUID())
	assert.NoError(t, err)
}
