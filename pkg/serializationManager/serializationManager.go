package serializationManager

import "github.com/nm-morais/go-golem/pkg/message"

// SerializationManager maps message type ids to variant factories. It is
// populated at startup and only read afterwards.
type SerializationManager interface {
	Register(id message.ID, factory message.Factory)
	Resolve(id message.ID) (message.Factory, bool)
	IDs() []message.ID
	Deserialize(raw []byte, encrypted bool) (message.Message, error)
	Serialize(msg message.Message) ([]byte, error)
}
