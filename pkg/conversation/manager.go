package conversation

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Manager holds the rolling conversation history that gets sent to the
// response strategies.
type Manager interface {
	GetConversation() Conversation
	AppendMessages(messages ...*Message)
	Clear()
}

// ManagerImpl keeps an insertion-ordered history capped at a bounded sliding
// window. When the cap is exceeded the oldest turns are dropped first, which
// bounds the prompt size sent to remote strategies. System messages are kept
// out of the window accounting so the persona preamble never ages out.
type ManagerImpl struct {
	mu sync.Mutex

	ConversationID uuid.UUID
	maxTurns       int
	messages       Conversation
}

var _ Manager = (*ManagerImpl)(nil)

const DefaultMaxTurns = 20

type ManagerOption func(*ManagerImpl)

func WithMaxTurns(n int) ManagerOption {
	return func(m *ManagerImpl) {
		if n > 0 {
			m.maxTurns = n
		}
	}
}

func WithMessages(messages ...*Message) ManagerOption {
	return func(m *ManagerImpl) {
		m.AppendMessages(messages...)
	}
}

func WithConversationID(id uuid.UUID) ManagerOption {
	return func(m *ManagerImpl) {
		m.ConversationID = id
	}
}

func NewManager(options ...ManagerOption) *ManagerImpl {
	ret := &ManagerImpl{
		ConversationID: uuid.Nil,
		maxTurns:       DefaultMaxTurns,
	}
	for _, option := range options {
		option(ret)
	}

	if ret.ConversationID == uuid.Nil {
		ret.ConversationID = uuid.New()
	}

	return ret
}

// GetConversation returns a copy of the current window. Callers may be
// racing dispatches; they get a stable snapshot.
func (m *ManagerImpl) GetConversation() Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	ret := make(Conversation, len(m.messages))
	copy(ret, m.messages)
	return ret
}

func (m *ManagerImpl) AppendMessages(messages ...*Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, messages...)
	m.trim()
}

func (m *ManagerImpl) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}

// trim drops the oldest non-system turns until the window fits. Called with
// the lock held.
func (m *ManagerImpl) trim() {
	count := 0
	for _, msg := range m.messages {
		if msg.Role != RoleSystem {
			count++
		}
	}
	if count <= m.maxTurns {
		return
	}

	dropped := 0
	kept := make(Conversation, 0, len(m.messages))
	for _, msg := range m.messages {
		if msg.Role != RoleSystem && count > m.maxTurns {
			count--
			dropped++
			continue
		}
		kept = append(kept, msg)
	}
	m.messages = kept

	log.Trace().
		Str("conversation_id", m.ConversationID.String()).
		Int("dropped", dropped).
		Int("window", m.maxTurns).
		Msg("trimmed conversation window")
}
