package events

import (
	"time"
)

type EventType string

const (
	// Chat transcript events.
	EventTypeUserMessage      EventType = "user-message"
	EventTypeAssistantMessage EventType = "assistant-message"
	EventTypeSystemNotice     EventType = "system-notice"

	// EventTypeFallback is published when a response strategy fails and the
	// dispatcher substitutes the pattern strategy's result.
	EventTypeFallback EventType = "fallback"

	// Avatar coordination events.
	EventTypeActionChanged EventType = "action-changed"
	EventTypeExpression    EventType = "expression"

	// Embedded runtime initialization progress.
	EventTypeRuntimeProgress EventType = "runtime-progress"
)

type Event struct {
	Type EventType `json:"type"`
	Time time.Time `json:"time"`
}

func NewEvent(type_ EventType) Event {
	return Event{
		Type: type_,
		Time: time.Now(),
	}
}

// EventChatMessage carries a single transcript entry. HTML is only set for
// assistant messages, which go through the markdown transform before display.
type EventChatMessage struct {
	Event
	Role string `json:"role"`
	Text string `json:"text"`
	HTML string `json:"html,omitempty"`
}

type EventFallback struct {
	Event
	Strategy string `json:"strategy"`
	Reason   string `json:"reason"`
}

type EventActionChanged struct {
	Event
	Previous string `json:"previous"`
	Current  string `json:"current"`
	Emote    bool   `json:"emote"`
}

type EventExpression struct {
	Event
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type EventRuntimeProgress struct {
	Event
	Percent int    `json:"percent"`
	Status  string `json:"status"`
}
