package messages

import "github.com/nm-morais/go-golem/pkg/message"

const resourceMessageBase message.ID = 3000

const (
	PushResourceMessageType = resourceMessageBase + 1
	HasResourceMessageType  = resourceMessageBase + 2
	WantResourceMessageType = resourceMessageBase + 3
	PullResourceMessageType = resourceMessageBase + 4
	PullAnswerMessageType   = resourceMessageBase + 5
	SendResourceMessageType = resourceMessageBase + 6
)

// Resource messages use lower-case field names on the wire.

type PushResource struct {
	message.Envelope
	Resource string `wire:"resource"`
	Copies   int64  `wire:"copies"`
}

func (*PushResource) Type() message.ID { return PushResourceMessageType }

func NewPushResource(resource string, copies int64) *PushResource {
	return &PushResource{Envelope: message.NewEnvelope(), Resource: resource, Copies: copies}
}

type HasResource struct {
	message.Envelope
	Resource string `wire:"resource"`
}

func (*HasResource) Type() message.ID { return HasResourceMessageType }

func NewHasResource(resource string) *HasResource {
	return &HasResource{Envelope: message.NewEnvelope(), Resource: resource}
}

type WantResource struct {
	message.Envelope
	Resource string `wire:"resource"`
}

func (*WantResource) Type() message.ID { return WantResourceMessageType }

func NewWantResource(resource string) *WantResource {
	return &WantResource{Envelope: message.NewEnvelope(), Resource: resource}
}

type PullResource struct {
	message.Envelope
	Resource string `wire:"resource"`
}

func (*PullResource) Type() message.ID { return PullResourceMessageType }

func NewPullResource(resource string) *PullResource {
	return &PullResource{Envelope: message.NewEnvelope(), Resource: resource}
}

type PullAnswer struct {
	message.Envelope
	Resource    string `wire:"resource"`
	HasResource bool   `wire:"has resource"`
}

func (*PullAnswer) Type() message.ID { return PullAnswerMessageType }

func NewPullAnswer(resource string, hasResource bool) *PullAnswer {
	return &PullAnswer{Envelope: message.NewEnvelope(), Resource: resource, HasResource: hasResource}
}

type SendResource struct {
	message.Envelope
	Resource string `wire:"resource"`
}

func (*SendResource) Type() message.ID { return SendResourceMessageType }

func NewSendResource(resource string) *SendResource {
	return &SendResource{Envelope: message.NewEnvelope(), Resource: resource}
}
