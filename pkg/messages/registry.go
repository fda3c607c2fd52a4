package messages

import (
	internalSerialization "github.com/nm-morais/go-golem/internal/serialization"
	"github.com/nm-morais/go-golem/pkg/message"
	"github.com/nm-morais/go-golem/pkg/serializationManager"
)

type entry struct {
	id      message.ID
	factory message.Factory
}

var catalog = []entry{
	{HelloMessageType, func() message.Message { return &Hello{} }},
	{RandValMessageType, func() message.Message { return &RandVal{} }},
	{DisconnectMessageType, func() message.Message { return &Disconnect{Reason: -1} }},

	{PingMessageType, func() message.Message { return &Ping{} }},
	{PongMessageType, func() message.Message { return &Pong{} }},
	{GetPeersMessageType, func() message.Message { return &GetPeers{} }},
	{PeersMessageType, func() message.Message { return &Peers{} }},
	{GetTasksMessageType, func() message.Message { return &GetTasks{} }},
	{TasksMessageType, func() message.Message { return &Tasks{} }},
	{RemoveTaskMessageType, func() message.Message { return &RemoveTask{} }},
	{GetResourcePeersMessageType, func() message.Message { return &GetResourcePeers{} }},
	{ResourcePeersMessageType, func() message.Message { return &ResourcePeers{} }},
	{DegreeMessageType, func() message.Message { return &Degree{} }},
	{GossipMessageType, func() message.Message { return &Gossip{} }},
	{StopGossipMessageType, func() message.Message { return &StopGossip{} }},
	{LocRankMessageType, func() message.Message { return &LocRank{} }},
	{FindNodeMessageType, func() message.Message { return &FindNode{} }},
	{WantToStartTaskSessionMessageType, func() message.Message { return &WantToStartTaskSession{} }},
	{SetTaskSessionMessageType, func() message.Message { return &SetTaskSession{} }},
	{NatHoleMessageType, func() message.Message { return &NatHole{} }},
	{NatTraverseFailureMessageType, func() message.Message { return &NatTraverseFailure{} }},
	{InformAboutNatTraverseFailureMessageType, func() message.Message { return &InformAboutNatTraverseFailure{} }},

	{WantToComputeTaskMessageType, func() message.Message { return &WantToComputeTask{} }},
	{TaskToComputeMessageType, func() message.Message { return &TaskToCompute{} }},
	{CannotAssignTaskMessageType, func() message.Message { return &CannotAssignTask{} }},
	{ReportComputedTaskMessageType, func() message.Message { return &ReportComputedTask{} }},
	{GetTaskResultMessageType, func() message.Message { return &GetTaskResult{} }},
	{TaskResultMessageType, func() message.Message { return &TaskResult{} }},
	{GetResourceMessageType, func() message.Message { return &GetResource{} }},
	{ResourceMessageType, func() message.Message { return &Resource{} }},
	{SubtaskResultAcceptedMessageType, func() message.Message { return &SubtaskResultAccepted{} }},
	{SubtaskResultRejectedMessageType, func() message.Message { return &SubtaskResultRejected{} }},
	{DeltaPartsMessageType, func() message.Message { return &DeltaParts{} }},
	{ResourceFormatMessageType, func() message.Message { return &ResourceFormat{} }},
	{AcceptResourceFormatMessageType, func() message.Message { return &AcceptResourceFormat{} }},
	{TaskFailureMessageType, func() message.Message { return &TaskFailure{} }},
	{StartSessionResponseMessageType, func() message.Message { return &StartSessionResponse{} }},
	{MiddlemanMessageType, func() message.Message { return &Middleman{} }},
	{JoinMiddlemanConnMessageType, func() message.Message { return &JoinMiddlemanConn{} }},
	{BeingMiddlemanAcceptedMessageType, func() message.Message { return &BeingMiddlemanAccepted{} }},
	{MiddlemanAcceptedMessageType, func() message.Message { return &MiddlemanAccepted{} }},
	{MiddlemanReadyMessageType, func() message.Message { return &MiddlemanReady{} }},
	{NatPunchMessageType, func() message.Message { return &NatPunch{} }},
	{WaitForNatTraverseMessageType, func() message.Message { return &WaitForNatTraverse{} }},
	{NatPunchFailureMessageType, func() message.Message { return &NatPunchFailure{} }},

	{PushResourceMessageType, func() message.Message { return &PushResource{} }},
	{HasResourceMessageType, func() message.Message { return &HasResource{} }},
	{WantResourceMessageType, func() message.Message { return &WantResource{} }},
	{PullResourceMessageType, func() message.Message { return &PullResource{} }},
	{PullAnswerMessageType, func() message.Message { return &PullAnswer{} }},
	{SendResourceMessageType, func() message.Message { return &SendResource{} }},

	{PeerStatusMessageType, func() message.Message { return &PeerStatus{} }},
	{NewTaskMessageType, func() message.Message { return &NewTask{} }},
	{KillNodeMessageType, func() message.Message { return &KillNode{} }},
	{KillAllNodesMessageType, func() message.Message { return &KillAllNodes{} }},
	{NewNodesMessageType, func() message.Message { return &NewNodes{} }},
}

// Bootstrap registers every known variant. Calling it again is harmless.
func Bootstrap(reg serializationManager.SerializationManager) {
	for _, e := range catalog {
		reg.Register(e.id, e.factory)
	}
}

// BootstrapManager registers only the manager control variants, for
// processes that speak nothing else.
func BootstrapManager(reg serializationManager.SerializationManager) {
	for _, e := range catalog {
		if e.id.Range() == "manager" {
			reg.Register(e.id, e.factory)
		}
	}
}

// NewRegistry returns a registry with every variant registered.
func NewRegistry() serializationManager.SerializationManager {
	reg := internalSerialization.NewSerializationManager()
	Bootstrap(reg)
	return reg
}

// IDs lists the type ids of the catalog in declaration order.
func IDs() []message.ID {
	ids := make([]message.ID, len(catalog))
	for i, e := range catalog {
		ids[i] = e.id
	}
	return ids
}

// ManagerIDs lists the manager control type ids.
func ManagerIDs() []message.ID {
	var ids []message.ID
	for _, e := range catalog {
		if e.id.Range() == "manager" {
			ids = append(ids, e.id)
		}
	}
	return ids
}
