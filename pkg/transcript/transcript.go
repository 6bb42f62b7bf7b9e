package transcript

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/events"
	"github.com/go-go-golems/marionette/pkg/markdown"
)

// Entry is a single displayed chat line. HTML is only filled in for
// assistant messages, which pass through the markdown transform; all other
// roles are shown as literal text.
type Entry struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	HTML string    `json:"html,omitempty"`
	Time time.Time `json:"time"`
}

type Role = conversation.Role

const (
	RoleUser      = conversation.RoleUser
	RoleAssistant = conversation.RoleAssistant
	RoleSystem    = conversation.RoleSystem
)

// Speaker voices assistant replies. The actual synthesis engine is owned by
// the host platform; implementations receive already-flattened plain text
// and the user's voice preference.
type Speaker interface {
	Speak(text string, voice string)
}

// NopSpeaker is the default Speaker; it only logs.
type NopSpeaker struct{}

func (NopSpeaker) Speak(text string, voice string) {
	log.Debug().Str("voice", voice).Int("length", len(text)).Msg("speech output suppressed")
}

// Transcript is the chat panel model: an append-only, bounded list of
// entries.
type Transcript struct {
	mu         sync.Mutex
	entries    []Entry
	maxEntries int

	speaker Speaker
	voice   func() string

	publisherManager *events.PublisherManager
}

type Option func(*Transcript)

func WithMaxEntries(n int) Option {
	return func(t *Transcript) {
		if n > 0 {
			t.maxEntries = n
		}
	}
}

func WithSpeaker(s Speaker) Option {
	return func(t *Transcript) {
		t.speaker = s
	}
}

// WithVoice supplies the voice-name preference lookup, evaluated at speak
// time so preference changes apply to the next utterance.
func WithVoice(voice func() string) Option {
	return func(t *Transcript) {
		t.voice = voice
	}
}

func WithPublisherManager(pm *events.PublisherManager) Option {
	return func(t *Transcript) {
		t.publisherManager = pm
	}
}

func NewTranscript(options ...Option) *Transcript {
	ret := &Transcript{
		maxEntries: 500,
		speaker:    NopSpeaker{},
		voice:      func() string { return "" },
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// AddMessage appends a chat line. Assistant output is converted through the
// markdown-to-safe-HTML transform before display and spoken as plain text;
// other roles are inserted literally.
func (t *Transcript) AddMessage(text string, role Role) {
	entry := Entry{
		Role: role,
		Text: text,
		Time: time.Now(),
	}

	if role == RoleAssistant {
		entry.HTML = markdown.ToSafeHTML(text)
		t.speaker.Speak(markdown.ToPlainText(text), t.voice())
	}

	t.mu.Lock()
	t.entries = append(t.entries, entry)
	if len(t.entries) > t.maxEntries {
		t.entries = t.entries[len(t.entries)-t.maxEntries:]
	}
	t.mu.Unlock()

	t.publish(entry)
}

// Entries returns a snapshot of the transcript.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	ret := make([]Entry, len(t.entries))
	copy(ret, t.entries)
	return ret
}

func (t *Transcript) publish(entry Entry) {
	if t.publisherManager == nil {
		return
	}

	type_ := events.EventTypeSystemNotice
	switch entry.Role {
	case RoleUser:
		type_ = events.EventTypeUserMessage
	case RoleAssistant:
		type_ = events.EventTypeAssistantMessage
	}

	t.publisherManager.PublishBlind(&events.EventChatMessage{
		Event: events.NewEvent(type_),
		Role:  string(entry.Role),
		Text:  entry.Text,
		HTML:  entry.HTML,
	})
}
