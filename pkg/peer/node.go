package peer

import (
	"fmt"
	"net"
	"slices"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/serialization"
)

const peerCaller = "Peer"

// NodeInfo describes how to reach a node, as carried in NODE_INFO fields.
type NodeInfo struct {
	Name         string
	Key          string
	PrvAddr      string
	PubAddr      string
	PrvPort      uint16
	PubPort      uint16
	P2PPrvPort   uint16
	P2PPubPort   uint16
	PrvAddresses []string
	NatType      string
}

func (n *NodeInfo) MarshalCanonical() (serialization.Value, error) {
	addrs := make([]serialization.Value, len(n.PrvAddresses))
	for i, a := range n.PrvAddresses {
		addrs[i] = a
	}
	return serialization.Map{
		{Key: "node_name", Value: n.Name},
		{Key: "key", Value: n.Key},
		{Key: "prv_addr", Value: n.PrvAddr},
		{Key: "pub_addr", Value: n.PubAddr},
		{Key: "prv_port", Value: int64(n.PrvPort)},
		{Key: "pub_port", Value: int64(n.PubPort)},
		{Key: "p2p_prv_port", Value: int64(n.P2PPrvPort)},
		{Key: "p2p_pub_port", Value: int64(n.P2PPubPort)},
		{Key: "prv_addresses", Value: addrs},
		{Key: "nat_type", Value: n.NatType},
	}, nil
}

func (n *NodeInfo) UnmarshalCanonical(v serialization.Value) error {
	m, ok := v.(serialization.Map)
	if !ok {
		return errors.NewDecodeError(peerCaller, "node info of kind %s", serialization.KindOf(v))
	}
	var err error
	if n.Name, err = m.GetString("node_name"); err != nil {
		return err
	}
	if n.Key, err = m.GetString("key"); err != nil {
		return err
	}
	if n.PrvAddr, err = m.GetString("prv_addr"); err != nil {
		return err
	}
	if n.PubAddr, err = m.GetString("pub_addr"); err != nil {
		return err
	}
	if n.PrvPort, err = port(m, "prv_port"); err != nil {
		return err
	}
	if n.PubPort, err = port(m, "pub_port"); err != nil {
		return err
	}
	if n.P2PPrvPort, err = port(m, "p2p_prv_port"); err != nil {
		return err
	}
	if n.P2PPubPort, err = port(m, "p2p_pub_port"); err != nil {
		return err
	}
	if n.PrvAddresses, err = m.GetStrings("prv_addresses"); err != nil {
		return err
	}
	n.NatType, err = m.GetString("nat_type")
	return err
}

func port(m serialization.Map, key string) (uint16, error) {
	p, err := m.GetInt(key)
	if err != nil {
		return 0, err
	}
	if p < 0 || p > 65535 {
		return 0, errors.NewDecodeError(peerCaller, "%s %d out of range", key, p)
	}
	return uint16(p), nil
}

// Multiaddr is the public p2p endpoint of the node.
func (n *NodeInfo) Multiaddr() (ma.Multiaddr, error) {
	return ToMultiaddr(n.PubAddr, n.P2PPubPort)
}

// PrivateMultiaddrs lists the p2p endpoint on every private address.
func (n *NodeInfo) PrivateMultiaddrs() ([]ma.Multiaddr, error) {
	addrs := n.PrvAddresses
	if len(addrs) == 0 && n.PrvAddr != "" {
		addrs = []string{n.PrvAddr}
	}
	out := make([]ma.Multiaddr, 0, len(addrs))
	for _, a := range addrs {
		m, err := ToMultiaddr(a, n.P2PPrvPort)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func ToMultiaddr(host string, port uint16) (ma.Multiaddr, error) {
	ip := net.ParseIP(host)
	switch {
	case ip == nil:
		return ma.NewMultiaddr(fmt.Sprintf("/dns/%s/tcp/%d", host, port))
	case ip.To4() != nil:
		return ma.NewMultiaddr(fmt.Sprintf("/ip4/%s/tcp/%d", ip, port))
	}
	return ma.NewMultiaddr(fmt.Sprintf("/ip6/%s/tcp/%d", ip, port))
}

func (n *NodeInfo) ToString() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s:%d)", n.Name, n.PubAddr, n.P2PPubPort)
}

func (n *NodeInfo) Equals(other *NodeInfo) bool {
	if n == nil || other == nil {
		return false
	}
	return n.Name == other.Name && n.Key == other.Key &&
		n.PrvAddr == other.PrvAddr && n.PubAddr == other.PubAddr &&
		n.PrvPort == other.PrvPort && n.PubPort == other.PubPort &&
		n.P2PPrvPort == other.P2PPrvPort && n.P2PPubPort == other.P2PPubPort &&
		slices.Equal(n.PrvAddresses, other.PrvAddresses) && n.NatType == other.NatType
}
