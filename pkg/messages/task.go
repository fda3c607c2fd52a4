package messages

import (
	"github.com/nm-morais/go-golem/pkg/message"
	"github.com/nm-morais/go-golem/pkg/peer"
	"github.com/nm-morais/go-golem/pkg/serialization"
	"github.com/nm-morais/go-golem/pkg/task"
)

const taskMessageBase message.ID = 2000

const (
	WantToComputeTaskMessageType      = taskMessageBase + 1
	TaskToComputeMessageType          = taskMessageBase + 2
	CannotAssignTaskMessageType       = taskMessageBase + 3
	ReportComputedTaskMessageType     = taskMessageBase + 4
	GetTaskResultMessageType          = taskMessageBase + 5
	TaskResultMessageType             = taskMessageBase + 6
	GetResourceMessageType            = taskMessageBase + 8
	ResourceMessageType               = taskMessageBase + 9
	SubtaskResultAcceptedMessageType  = taskMessageBase + 10
	SubtaskResultRejectedMessageType  = taskMessageBase + 11
	DeltaPartsMessageType             = taskMessageBase + 12
	ResourceFormatMessageType         = taskMessageBase + 13
	AcceptResourceFormatMessageType   = taskMessageBase + 14
	TaskFailureMessageType            = taskMessageBase + 15
	StartSessionResponseMessageType   = taskMessageBase + 16
	MiddlemanMessageType              = taskMessageBase + 17
	JoinMiddlemanConnMessageType      = taskMessageBase + 18
	BeingMiddlemanAcceptedMessageType = taskMessageBase + 19
	MiddlemanAcceptedMessageType      = taskMessageBase + 20
	MiddlemanReadyMessageType         = taskMessageBase + 21
	NatPunchMessageType               = taskMessageBase + 22
	WaitForNatTraverseMessageType     = taskMessageBase + 23
	NatPunchFailureMessageType        = taskMessageBase + 24
)

type WantToComputeTask struct {
	message.Envelope
	ClientID        string  `wire:"CLIENT_ID"`
	TaskID          string  `wire:"TASK_ID"`
	PerfIndex       float64 `wire:"PERF_INDEX"`
	MaxResourceSize int64   `wire:"MAX_RES"`
	MaxMemorySize   int64   `wire:"MAX_MEM"`
	NumCores        int64   `wire:"NUM_CORES"`
}

func (*WantToComputeTask) Type() message.ID { return WantToComputeTaskMessageType }

func NewWantToComputeTask(clientID, taskID string, perfIndex float64, maxResourceSize, maxMemorySize, numCores int64) *WantToComputeTask {
	return &WantToComputeTask{
		Envelope:        message.NewEnvelope(),
		ClientID:        clientID,
		TaskID:          taskID,
		PerfIndex:       perfIndex,
		MaxResourceSize: maxResourceSize,
		MaxMemorySize:   maxMemorySize,
		NumCores:        numCores,
	}
}

type TaskToCompute struct {
	message.Envelope
	ComputeTaskDef *task.ComputeTaskDef `wire:"COMPUTE_TASK_DEF"`
}

func (*TaskToCompute) Type() message.ID { return TaskToComputeMessageType }

func NewTaskToCompute(ctd *task.ComputeTaskDef) *TaskToCompute {
	return &TaskToCompute{Envelope: message.NewEnvelope(), ComputeTaskDef: ctd}
}

type CannotAssignTask struct {
	message.Envelope
	TaskID string `wire:"TASK_ID"`
	Reason string `wire:"REASON"`
}

func (*CannotAssignTask) Type() message.ID { return CannotAssignTaskMessageType }

func NewCannotAssignTask(taskID, reason string) *CannotAssignTask {
	return &CannotAssignTask{Envelope: message.NewEnvelope(), TaskID: taskID, Reason: reason}
}

type ReportComputedTask struct {
	message.Envelope
	SubtaskID  string              `wire:"SUB_TASK_ID"`
	ResultType int64               `wire:"RESULT_TYPE"`
	NodeID     string              `wire:"NODE_ID"`
	Address    string              `wire:"ADDR"`
	Port       int64               `wire:"PORT"`
	KeyID      string              `wire:"KEY_ID"`
	EthAccount string              `wire:"ETH_ACCOUNT,optional"`
	ExtraData  serialization.Value `wire:"EXTRA_DATA,optional"`
	NodeInfo   *peer.NodeInfo      `wire:"NODE_INFO"`
}

func (*ReportComputedTask) Type() message.ID { return ReportComputedTaskMessageType }

func NewReportComputedTask(subtaskID string, resultType int64, nodeID, address string, port int64, keyID string, nodeInfo *peer.NodeInfo, ethAccount string, extraData serialization.Value) *ReportComputedTask {
	return &ReportComputedTask{
		Envelope:   message.NewEnvelope(),
		SubtaskID:  subtaskID,
		ResultType: resultType,
		NodeID:     nodeID,
		Address:    address,
		Port:       port,
		KeyID:      keyID,
		EthAccount: ethAccount,
		ExtraData:  extraData,
		NodeInfo:   nodeInfo,
	}
}

type GetTaskResult struct {
	message.Envelope
	SubtaskID string  `wire:"SUB_TASK_ID"`
	Delay     float64 `wire:"DELAY"`
}

func (*GetTaskResult) Type() message.ID { return GetTaskResultMessageType }

func NewGetTaskResult(subtaskID string, delay float64) *GetTaskResult {
	return &GetTaskResult{Envelope: message.NewEnvelope(), SubtaskID: subtaskID, Delay: delay}
}

type TaskResult struct {
	message.Envelope
	SubtaskID string              `wire:"SUB_TASK_ID"`
	Result    serialization.Value `wire:"RESULT"`
}

func (*TaskResult) Type() message.ID { return TaskResultMessageType }

func NewTaskResult(subtaskID string, result serialization.Value) *TaskResult {
	return &TaskResult{Envelope: message.NewEnvelope(), SubtaskID: subtaskID, Result: result}
}

type GetResource struct {
	message.Envelope
	TaskID         string              `wire:"SUB_TASK_ID"`
	ResourceHeader serialization.Value `wire:"RESOURCE_HEADER"`
}

func (*GetResource) Type() message.ID { return GetResourceMessageType }

func NewGetResource(taskID string, resourceHeader serialization.Value) *GetResource {
	return &GetResource{Envelope: message.NewEnvelope(), TaskID: taskID, ResourceHeader: resourceHeader}
}

type Resource struct {
	message.Envelope
	SubtaskID string              `wire:"SUB_TASK_ID"`
	Resource  serialization.Value `wire:"RESOURCE"`
}

func (*Resource) Type() message.ID { return ResourceMessageType }

func NewResource(subtaskID string, resource serialization.Value) *Resource {
	return &Resource{Envelope: message.NewEnvelope(), SubtaskID: subtaskID, Resource: resource}
}

type SubtaskResultAccepted struct {
	message.Envelope
	SubtaskID string `wire:"SUB_TASK_ID"`
	Reward    int64  `wire:"REWARD"`
}

func (*SubtaskResultAccepted) Type() message.ID { return SubtaskResultAcceptedMessageType }

func NewSubtaskResultAccepted(subtaskID string, reward int64) *SubtaskResultAccepted {
	return &SubtaskResultAccepted{Envelope: message.NewEnvelope(), SubtaskID: subtaskID, Reward: reward}
}

type SubtaskResultRejected struct {
	message.Envelope
	SubtaskID string `wire:"SUB_TASK_ID"`
}

func (*SubtaskResultRejected) Type() message.ID { return SubtaskResultRejectedMessageType }

func NewSubtaskResultRejected(subtaskID string) *SubtaskResultRejected {
	return &SubtaskResultRejected{Envelope: message.NewEnvelope(), SubtaskID: subtaskID}
}

// DeltaParts describes the resource parts a computing node is missing. The
// node info key is lower case on the wire.
type DeltaParts struct {
	message.Envelope
	TaskID      string                `wire:"TASK_ID"`
	DeltaHeader serialization.Value   `wire:"DELTA_HEADER"`
	Parts       []serialization.Value `wire:"PARTS"`
	ClientID    string                `wire:"CLIENT_ID"`
	Addr        string                `wire:"ADDR"`
	Port        int64                 `wire:"PORT"`
	NodeInfo    *peer.NodeInfo        `wire:"node info,optional"`
}

func (*DeltaParts) Type() message.ID { return DeltaPartsMessageType }

func NewDeltaParts(taskID string, deltaHeader serialization.Value, parts []serialization.Value, clientID string, nodeInfo *peer.NodeInfo, addr string, port int64) *DeltaParts {
	return &DeltaParts{
		Envelope:    message.NewEnvelope(),
		TaskID:      taskID,
		DeltaHeader: deltaHeader,
		Parts:       parts,
		ClientID:    clientID,
		Addr:        addr,
		Port:        port,
		NodeInfo:    nodeInfo,
	}
}

type ResourceFormat struct {
	message.Envelope
	UseDistributedResource bool `wire:"USE_DISTRIBUTED_RESOURCE"`
}

func (*ResourceFormat) Type() message.ID { return ResourceFormatMessageType }

func NewResourceFormat(useDistributedResource bool) *ResourceFormat {
	return &ResourceFormat{Envelope: message.NewEnvelope(), UseDistributedResource: useDistributedResource}
}

type AcceptResourceFormat struct {
	message.Envelope
	_ message.Marker `wire:"ACCEPT_RESOURCE_FORMAT"`
}

func (*AcceptResourceFormat) Type() message.ID { return AcceptResourceFormatMessageType }

func NewAcceptResourceFormat() *AcceptResourceFormat {
	return &AcceptResourceFormat{Envelope: message.NewEnvelope()}
}

type TaskFailure struct {
	message.Envelope
	SubtaskID string `wire:"SUBTASK_ID"`
	Err       string `wire:"ERR"`
}

func (*TaskFailure) Type() message.ID { return TaskFailureMessageType }

func NewTaskFailure(subtaskID, err string) *TaskFailure {
	return &TaskFailure{Envelope: message.NewEnvelope(), SubtaskID: subtaskID, Err: err}
}

type StartSessionResponse struct {
	message.Envelope
	ConnID string `wire:"CONN_ID"`
}

func (*StartSessionResponse) Type() message.ID { return StartSessionResponseMessageType }

func NewStartSessionResponse(connID string) *StartSessionResponse {
	return &StartSessionResponse{Envelope: message.NewEnvelope(), ConnID: connID}
}

type Middleman struct {
	message.Envelope
	AskingNode *peer.NodeInfo `wire:"ASKING_NODE"`
	DestNode   *peer.NodeInfo `wire:"DEST_NODE"`
	AskConnID  string         `wire:"ASK_CONN_ID"`
}

func (*Middleman) Type() message.ID { return MiddlemanMessageType }

func NewMiddleman(askingNode, destNode *peer.NodeInfo, askConnID string) *Middleman {
	return &Middleman{Envelope: message.NewEnvelope(), AskingNode: askingNode, DestNode: destNode, AskConnID: askConnID}
}

type JoinMiddlemanConn struct {
	message.Envelope
	ConnID        string `wire:"CONN_ID"`
	KeyID         string `wire:"KEY_ID"`
	DestNodeKeyID string `wire:"DEST_NODE_KEY_ID"`
}

func (*JoinMiddlemanConn) Type() message.ID { return JoinMiddlemanConnMessageType }

func NewJoinMiddlemanConn(keyID, connID, destNodeKeyID string) *JoinMiddlemanConn {
	return &JoinMiddlemanConn{Envelope: message.NewEnvelope(), ConnID: connID, KeyID: keyID, DestNodeKeyID: destNodeKeyID}
}

type BeingMiddlemanAccepted struct {
	message.Envelope
	_ message.Marker `wire:"MIDDLEMAN"`
}

func (*BeingMiddlemanAccepted) Type() message.ID { return BeingMiddlemanAcceptedMessageType }

func NewBeingMiddlemanAccepted() *BeingMiddlemanAccepted {
	return &BeingMiddlemanAccepted{Envelope: message.NewEnvelope()}
}

type MiddlemanAccepted struct {
	message.Envelope
	_ message.Marker `wire:"MIDDLEMAN"`
}

func (*MiddlemanAccepted) Type() message.ID { return MiddlemanAcceptedMessageType }

func NewMiddlemanAccepted() *MiddlemanAccepted {
	return &MiddlemanAccepted{Envelope: message.NewEnvelope()}
}

type MiddlemanReady struct {
	message.Envelope
	_ message.Marker `wire:"MIDDLEMAN"`
}

func (*MiddlemanReady) Type() message.ID { return MiddlemanReadyMessageType }

func NewMiddlemanReady() *MiddlemanReady {
	return &MiddlemanReady{Envelope: message.NewEnvelope()}
}

type NatPunch struct {
	message.Envelope
	AskingNode *peer.NodeInfo `wire:"ASKING_NODE"`
	DestNode   *peer.NodeInfo `wire:"DEST_NODE"`
	AskConnID  string         `wire:"ASK_CONN_ID"`
}

func (*NatPunch) Type() message.ID { return NatPunchMessageType }

func NewNatPunch(askingNode, destNode *peer.NodeInfo, askConnID string) *NatPunch {
	return &NatPunch{Envelope: message.NewEnvelope(), AskingNode: askingNode, DestNode: destNode, AskConnID: askConnID}
}

type WaitForNatTraverse struct {
	message.Envelope
	Port int64 `wire:"PORT"`
}

func (*WaitForNatTraverse) Type() message.ID { return WaitForNatTraverseMessageType }

func NewWaitForNatTraverse(port int64) *WaitForNatTraverse {
	return &WaitForNatTraverse{Envelope: message.NewEnvelope(), Port: port}
}

type NatPunchFailure struct {
	message.Envelope
	_ message.Marker `wire:"NAT_PUNCH_FAILURE"`
}

func (*NatPunchFailure) Type() message.ID { return NatPunchFailureMessageType }

func NewNatPunchFailure() *NatPunchFailure {
	return &NatPunchFailure{Envelope: message.NewEnvelope()}
}
