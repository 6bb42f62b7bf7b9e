package responder

import (
	"strings"

	"github.com/go-go-golems/marionette/pkg/conversation"
)

// DefaultPersona is the fixed persona preamble shared by the generation
// backends.
const DefaultPersona = "You are a friendly virtual avatar assistant. " +
	"You keep your replies short, warm and conversational."

// DefaultHistoryTurns bounds how many trailing history turns are included in
// prompts sent to the generation backends.
const DefaultHistoryTurns = 6

// BuildPrompt concatenates the persona, the last k history turns formatted
// as alternating "Human:"/"Assistant:" lines, and the new user turn, for
// backends that take a single freeform prompt.
func BuildPrompt(persona string, history conversation.Conversation, userMessage string, k int) string {
	var sb strings.Builder

	sb.WriteString(persona)
	sb.WriteString("\n\n")

	for _, msg := range history.LastN(k) {
		switch msg.Role {
		case conversation.RoleUser:
			sb.WriteString("Human: ")
		case conversation.RoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			continue
		}
		sb.WriteString(strings.TrimSpace(msg.Text))
		sb.WriteString("\n")
	}

	sb.WriteString("Human: ")
	sb.WriteString(strings.TrimSpace(userMessage))
	sb.WriteString("\nAssistant:")

	return sb.String()
}

// BuildMessages builds the structured message list (system persona, bounded
// trailing history, new user turn) for chat-completion style backends.
func BuildMessages(persona string, history conversation.Conversation, userMessage string, k int) conversation.Conversation {
	ret := conversation.Conversation{
		conversation.NewMessage(conversation.RoleSystem, persona),
	}

	for _, msg := range history.LastN(k) {
		if msg.Role == conversation.RoleSystem {
			continue
		}
		ret = append(ret, msg)
	}

	ret = append(ret, conversation.NewMessage(conversation.RoleUser, userMessage))
	return ret
}
