// Package messages defines every message variant of the golem wire protocol
// and the bootstrap that registers them.
package messages

import (
	"github.com/nm-morais/go-golem/pkg/message"
	"github.com/nm-morais/go-golem/pkg/peer"
)

const (
	HelloMessageType      message.ID = 0
	RandValMessageType    message.ID = 1
	DisconnectMessageType message.ID = 2
)

// Hello opens every session.
type Hello struct {
	message.Envelope
	ProtoID     int64          `wire:"PROTO_ID"`
	ClientVer   string         `wire:"CLI_VER"`
	Port        int64          `wire:"PORT"`
	ClientUID   string         `wire:"CLIENT_UID"`
	ClientKeyID string         `wire:"CLIENT_KEY_ID"`
	RandVal     float64        `wire:"RAND_VAL"`
	NodeInfo    *peer.NodeInfo `wire:"NODE_INFO"`
}

func (*Hello) Type() message.ID { return HelloMessageType }

func NewHello(port int64, clientUID, clientKeyID string, nodeInfo *peer.NodeInfo, randVal float64, protoID int64, clientVer string) *Hello {
	return &Hello{
		Envelope:    message.NewEnvelope(),
		ProtoID:     protoID,
		ClientVer:   clientVer,
		Port:        port,
		ClientUID:   clientUID,
		ClientKeyID: clientKeyID,
		RandVal:     randVal,
		NodeInfo:    nodeInfo,
	}
}

// RandVal echoes the random value of a Hello, signed by the receiver.
type RandVal struct {
	message.Envelope
	RandVal float64 `wire:"RAND_VAL"`
}

func (*RandVal) Type() message.ID { return RandValMessageType }

func NewRandVal(randVal float64) *RandVal {
	return &RandVal{Envelope: message.NewEnvelope(), RandVal: randVal}
}

type Disconnect struct {
	message.Envelope
	Reason int64 `wire:"DISCONNECT_REASON"`
}

func (*Disconnect) Type() message.ID { return DisconnectMessageType }

func NewDisconnect(reason int64) *Disconnect {
	return &Disconnect{Envelope: message.NewEnvelope(), Reason: reason}
}
