package serialization

import (
	"math"
	"slices"
	"sync"

	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/message"
)

const registryCaller = "Registry"

type Manager struct {
	mu        sync.RWMutex
	factories map[message.ID]message.Factory
}

func NewSerializationManager() *Manager {
	return &Manager{
		factories: map[message.ID]message.Factory{},
	}
}

// Register stores factory under id; the last registration wins.
func (m *Manager) Register(id message.ID, factory message.Factory) {
	m.mu.Lock()
	m.factories[id] = factory
	m.mu.Unlock()
}

func (m *Manager) Resolve(id message.ID) (message.Factory, bool) {
	m.mu.RLock()
	factory, ok := m.factories[id]
	m.mu.RUnlock()
	return factory, ok
}

func (m *Manager) IDs() []message.ID {
	m.mu.RLock()
	ids := make([]message.ID, 0, len(m.factories))
	for id := range m.factories {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Deserialize decodes one plaintext envelope into its registered variant.
func (m *Manager) Deserialize(raw []byte, encrypted bool) (message.Message, error) {
	env, err := message.DecodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if env.Type < 0 || env.Type > math.MaxUint16 {
		return nil, errors.NewUnrecognizedTypeError(registryCaller, env.Type)
	}
	factory, ok := m.Resolve(message.ID(env.Type))
	if !ok {
		return nil, errors.NewUnrecognizedTypeError(registryCaller, env.Type)
	}
	env.Header.Encrypted = encrypted
	return message.FromFields(factory, env.Header, env.Fields)
}

func (m *Manager) Serialize(msg message.Message) ([]byte, error) {
	return message.Serialize(msg)
}
