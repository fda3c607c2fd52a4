package messages

import (
	"github.com/nm-morais/go-golem/pkg/message"
	"github.com/nm-morais/go-golem/pkg/serialization"
)

const managerMessageBase message.ID = 5000

const (
	PeerStatusMessageType   = managerMessageBase + 1
	NewTaskMessageType      = managerMessageBase + 2
	KillNodeMessageType     = managerMessageBase + 3
	KillAllNodesMessageType = managerMessageBase + 4
	NewNodesMessageType     = managerMessageBase + 5
)

type PeerStatus struct {
	message.Envelope
	ID   string `wire:"ID"`
	Data string `wire:"DATA"`
}

func (*PeerStatus) Type() message.ID { return PeerStatusMessageType }

func NewPeerStatus(id, data string) *PeerStatus {
	return &PeerStatus{Envelope: message.NewEnvelope(), ID: id, Data: data}
}

type NewTask struct {
	message.Envelope
	Data serialization.Value `wire:"DATA"`
}

func (*NewTask) Type() message.ID { return NewTaskMessageType }

func NewNewTask(data serialization.Value) *NewTask {
	return &NewTask{Envelope: message.NewEnvelope(), Data: data}
}

type KillNode struct {
	message.Envelope
	_ message.Marker `wire:"KILL"`
}

func (*KillNode) Type() message.ID { return KillNodeMessageType }

func NewKillNode() *KillNode { return &KillNode{Envelope: message.NewEnvelope()} }

type KillAllNodes struct {
	message.Envelope
	_ message.Marker `wire:"KILLALL"`
}

func (*KillAllNodes) Type() message.ID { return KillAllNodesMessageType }

func NewKillAllNodes() *KillAllNodes { return &KillAllNodes{Envelope: message.NewEnvelope()} }

type NewNodes struct {
	message.Envelope
	Num int64 `wire:"NUM"`
}

func (*NewNodes) Type() message.ID { return NewNodesMessageType }

func NewNewNodes(num int64) *NewNodes {
	return &NewNodes{Envelope: message.NewEnvelope(), Num: num}
}
