package peer

import (
	"github.com/google/uuid"
	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/serialization"
)

// PeerInfo is one record of a PEERS or RESOURCE_PEERS list.
type PeerInfo struct {
	ID      string
	Address string
	Port    uint16
	Node    *NodeInfo
}

func (p PeerInfo) ToMap() (serialization.Map, error) {
	m := serialization.Map{
		{Key: "address", Value: p.Address},
		{Key: "port", Value: int64(p.Port)},
		{Key: "id", Value: p.ID},
	}
	var node serialization.Value
	if p.Node != nil {
		nv, err := p.Node.MarshalCanonical()
		if err != nil {
			return nil, err
		}
		node = nv
	}
	return append(m, serialization.Entry{Key: "node", Value: node}), nil
}

func PeerInfoFromMap(m serialization.Map) (PeerInfo, error) {
	var (
		p   PeerInfo
		err error
	)
	if p.ID, err = m.GetString("id"); err != nil {
		return PeerInfo{}, err
	}
	if p.Address, err = m.GetString("address"); err != nil {
		return PeerInfo{}, err
	}
	if p.Port, err = port(m, "port"); err != nil {
		return PeerInfo{}, err
	}
	if nv, ok := m.Get("node"); ok && nv != nil {
		p.Node = &NodeInfo{}
		if err := p.Node.UnmarshalCanonical(nv); err != nil {
			return PeerInfo{}, err
		}
	}
	return p, nil
}

func ToMaps(peers []PeerInfo) ([]serialization.Map, error) {
	out := make([]serialization.Map, 0, len(peers))
	for _, p := range peers {
		m, err := p.ToMap()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func FromMaps(records []serialization.Map) ([]PeerInfo, error) {
	out := make([]PeerInfo, 0, len(records))
	for i, r := range records {
		p, err := PeerInfoFromMap(r)
		if err != nil {
			return nil, errors.WrapDecodeError(peerCaller, err, "peer record %d", i)
		}
		out = append(out, p)
	}
	return out, nil
}

// NewConnID returns a fresh id for CONN_ID fields.
func NewConnID() string {
	return uuid.NewString()
}

// NewClientUID returns a fresh id for CLIENT_UID fields.
func NewClientUID() string {
	return uuid.NewString()
}
