package messages

import (
	"github.com/nm-morais/go-golem/pkg/message"
	"github.com/nm-morais/go-golem/pkg/peer"
	"github.com/nm-morais/go-golem/pkg/serialization"
)

const p2pMessageBase message.ID = 1000

const (
	PingMessageType                          = p2pMessageBase + 1
	PongMessageType                          = p2pMessageBase + 2
	GetPeersMessageType                      = p2pMessageBase + 3
	PeersMessageType                         = p2pMessageBase + 4
	GetTasksMessageType                      = p2pMessageBase + 5
	TasksMessageType                         = p2pMessageBase + 6
	RemoveTaskMessageType                    = p2pMessageBase + 7
	GetResourcePeersMessageType              = p2pMessageBase + 8
	ResourcePeersMessageType                 = p2pMessageBase + 9
	DegreeMessageType                        = p2pMessageBase + 10
	GossipMessageType                        = p2pMessageBase + 11
	StopGossipMessageType                    = p2pMessageBase + 12
	LocRankMessageType                       = p2pMessageBase + 13
	FindNodeMessageType                      = p2pMessageBase + 14
	WantToStartTaskSessionMessageType        = p2pMessageBase + 15
	SetTaskSessionMessageType                = p2pMessageBase + 16
	NatHoleMessageType                       = p2pMessageBase + 17
	NatTraverseFailureMessageType            = p2pMessageBase + 18
	InformAboutNatTraverseFailureMessageType = p2pMessageBase + 19
)

type Ping struct {
	message.Envelope
	_ message.Marker `wire:"PING"`
}

func (*Ping) Type() message.ID { return PingMessageType }

func NewPing() *Ping { return &Ping{Envelope: message.NewEnvelope()} }

type Pong struct {
	message.Envelope
	_ message.Marker `wire:"PONG"`
}

func (*Pong) Type() message.ID { return PongMessageType }

func NewPong() *Pong { return &Pong{Envelope: message.NewEnvelope()} }

type GetPeers struct {
	message.Envelope
	_ message.Marker `wire:"GET_PEERS"`
}

func (*GetPeers) Type() message.ID { return GetPeersMessageType }

func NewGetPeers() *GetPeers { return &GetPeers{Envelope: message.NewEnvelope()} }

// Peers carries peer records. The short hash ignores both the record order
// and the key order inside each record.
type Peers struct {
	message.Envelope
	Peers []serialization.Map `wire:"PEERS"`
}

func (*Peers) Type() message.ID { return PeersMessageType }

func (m *Peers) HashInput() (serialization.Value, error) {
	return message.SortedRecords(m.Peers)
}

func NewPeers(peers []serialization.Map) *Peers {
	if peers == nil {
		peers = []serialization.Map{}
	}
	return &Peers{Envelope: message.NewEnvelope(), Peers: peers}
}

// NewPeersFromInfo builds the record list from typed peer descriptors.
func NewPeersFromInfo(peers []peer.PeerInfo) (*Peers, error) {
	records, err := peer.ToMaps(peers)
	if err != nil {
		return nil, err
	}
	return NewPeers(records), nil
}

func (m *Peers) PeerInfos() ([]peer.PeerInfo, error) {
	return peer.FromMaps(m.Peers)
}

type GetTasks struct {
	message.Envelope
	_ message.Marker `wire:"GET_TASKS"`
}

func (*GetTasks) Type() message.ID { return GetTasksMessageType }

func NewGetTasks() *GetTasks { return &GetTasks{Envelope: message.NewEnvelope()} }

// Tasks carries task header records, hashed like Peers.
type Tasks struct {
	message.Envelope
	Tasks []serialization.Map `wire:"TASKS"`
}

func (*Tasks) Type() message.ID { return TasksMessageType }

func (m *Tasks) HashInput() (serialization.Value, error) {
	return message.SortedRecords(m.Tasks)
}

func NewTasks(tasks []serialization.Map) *Tasks {
	if tasks == nil {
		tasks = []serialization.Map{}
	}
	return &Tasks{Envelope: message.NewEnvelope(), Tasks: tasks}
}

type RemoveTask struct {
	message.Envelope
	TaskID string `wire:"REMOVE_TASK"`
}

func (*RemoveTask) Type() message.ID { return RemoveTaskMessageType }

func NewRemoveTask(taskID string) *RemoveTask {
	return &RemoveTask{Envelope: message.NewEnvelope(), TaskID: taskID}
}

type GetResourcePeers struct {
	message.Envelope
	_ message.Marker `wire:"WANT_RESOURCE_PEERS"`
}

func (*GetResourcePeers) Type() message.ID { return GetResourcePeersMessageType }

func NewGetResourcePeers() *GetResourcePeers {
	return &GetResourcePeers{Envelope: message.NewEnvelope()}
}

// ResourcePeers carries resource peer records, hashed like Peers.
type ResourcePeers struct {
	message.Envelope
	ResourcePeers []serialization.Map `wire:"RESOURCE_PEERS"`
}

func (*ResourcePeers) Type() message.ID { return ResourcePeersMessageType }

func (m *ResourcePeers) HashInput() (serialization.Value, error) {
	return message.SortedRecords(m.ResourcePeers)
}

func NewResourcePeers(resourcePeers []serialization.Map) *ResourcePeers {
	if resourcePeers == nil {
		resourcePeers = []serialization.Map{}
	}
	return &ResourcePeers{Envelope: message.NewEnvelope(), ResourcePeers: resourcePeers}
}

type Degree struct {
	message.Envelope
	Degree int64 `wire:"DEGREE"`
}

func (*Degree) Type() message.ID { return DegreeMessageType }

func NewDegree(degree int64) *Degree {
	return &Degree{Envelope: message.NewEnvelope(), Degree: degree}
}

type Gossip struct {
	message.Envelope
	Gossip serialization.Value `wire:"GOSSIP"`
}

func (*Gossip) Type() message.ID { return GossipMessageType }

func NewGossip(gossip serialization.Value) *Gossip {
	return &Gossip{Envelope: message.NewEnvelope(), Gossip: gossip}
}

type StopGossip struct {
	message.Envelope
	_ message.Marker `wire:"STOP_GOSSIP"`
}

func (*StopGossip) Type() message.ID { return StopGossipMessageType }

func NewStopGossip() *StopGossip { return &StopGossip{Envelope: message.NewEnvelope()} }

type LocRank struct {
	message.Envelope
	NodeID  string              `wire:"NODE_ID"`
	LocRank serialization.Value `wire:"LOC_RANK"`
}

func (*LocRank) Type() message.ID { return LocRankMessageType }

func NewLocRank(nodeID string, locRank serialization.Value) *LocRank {
	return &LocRank{Envelope: message.NewEnvelope(), NodeID: nodeID, LocRank: locRank}
}

type FindNode struct {
	message.Envelope
	NodeKeyID string `wire:"NODE_KEY_ID"`
}

func (*FindNode) Type() message.ID { return FindNodeMessageType }

func NewFindNode(nodeKeyID string) *FindNode {
	return &FindNode{Envelope: message.NewEnvelope(), NodeKeyID: nodeKeyID}
}

type WantToStartTaskSession struct {
	message.Envelope
	NodeInfo      *peer.NodeInfo `wire:"NODE_INFO"`
	ConnID        string         `wire:"CONN_ID"`
	SuperNodeInfo *peer.NodeInfo `wire:"SUPER_NODE_INFO,optional"`
}

func (*WantToStartTaskSession) Type() message.ID { return WantToStartTaskSessionMessageType }

func NewWantToStartTaskSession(nodeInfo *peer.NodeInfo, connID string, superNodeInfo *peer.NodeInfo) *WantToStartTaskSession {
	return &WantToStartTaskSession{
		Envelope:      message.NewEnvelope(),
		NodeInfo:      nodeInfo,
		ConnID:        connID,
		SuperNodeInfo: superNodeInfo,
	}
}

type SetTaskSession struct {
	message.Envelope
	KeyID         string         `wire:"KEY_ID"`
	NodeInfo      *peer.NodeInfo `wire:"NODE_INFO"`
	ConnID        string         `wire:"CONN_ID"`
	SuperNodeInfo *peer.NodeInfo `wire:"SUPER_NODE_INFO,optional"`
}

func (*SetTaskSession) Type() message.ID { return SetTaskSessionMessageType }

func NewSetTaskSession(keyID string, nodeInfo *peer.NodeInfo, connID string, superNodeInfo *peer.NodeInfo) *SetTaskSession {
	return &SetTaskSession{
		Envelope:      message.NewEnvelope(),
		KeyID:         keyID,
		NodeInfo:      nodeInfo,
		ConnID:        connID,
		SuperNodeInfo: superNodeInfo,
	}
}

type NatHole struct {
	message.Envelope
	KeyID  string `wire:"KEY_ID"`
	Addr   string `wire:"ADDR"`
	Port   int64  `wire:"PORT"`
	ConnID string `wire:"CONN_ID"`
}

func (*NatHole) Type() message.ID { return NatHoleMessageType }

func NewNatHole(keyID, addr string, port int64, connID string) *NatHole {
	return &NatHole{Envelope: message.NewEnvelope(), KeyID: keyID, Addr: addr, Port: port, ConnID: connID}
}

type NatTraverseFailure struct {
	message.Envelope
	ConnID string `wire:"CONN_ID"`
}

func (*NatTraverseFailure) Type() message.ID { return NatTraverseFailureMessageType }

func NewNatTraverseFailure(connID string) *NatTraverseFailure {
	return &NatTraverseFailure{Envelope: message.NewEnvelope(), ConnID: connID}
}

type InformAboutNatTraverseFailure struct {
	message.Envelope
	KeyID  string `wire:"KEY_ID"`
	ConnID string `wire:"CONN_ID"`
}

func (*InformAboutNatTraverseFailure) Type() message.ID {
	return InformAboutNatTraverseFailureMessageType
}

func NewInformAboutNatTraverseFailure(keyID, connID string) *InformAboutNatTraverseFailure {
	return &InformAboutNatTraverseFailure{Envelope: message.NewEnvelope(), KeyID: keyID, ConnID: connID}
}
