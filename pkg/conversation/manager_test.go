package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerCapsWindowFIFO(t *testing.T) {
	m := NewManager(WithMaxTurns(4))

	for i := 0; i < 10; i++ {
		m.AppendMessages(NewMessage(RoleUser, fmt.Sprintf("user %d", i)))
		m.AppendMessages(NewMessage(RoleAssistant, fmt.Sprintf("assistant %d", i)))
	}

	conv := m.GetConversation()
	require.Len(t, conv, 4)
	// oldest turns are dropped first
	assert.Equal(t, "user 9", conv[len(conv)-2].Text)
	assert.Equal(t, "assistant 9", conv[len(conv)-1].Text)
	assert.Equal(t, "user 8", conv[0].Text)
}

func TestManagerKeepsSystemMessages(t *testing.T) {
	m := NewManager(WithMaxTurns(2))

	m.AppendMessages(NewMessage(RoleSystem, "persona"))
	for i := 0; i < 5; i++ {
		m.AppendMessages(NewMessage(RoleUser, fmt.Sprintf("msg %d", i)))
	}

	conv := m.GetConversation()
	require.Len(t, conv, 3)
	assert.Equal(t, RoleSystem, conv[0].Role)
	assert.Equal(t, "msg 3", conv[1].Text)
	assert.Equal(t, "msg 4", conv[2].Text)
}

func TestGetConversationReturnsSnapshot(t *testing.T) {
	m := NewManager()
	m.AppendMessages(NewMessage(RoleUser, "hello"))

	conv := m.GetConversation()
	m.AppendMessages(NewMessage(RoleAssistant, "hi"))

	assert.Len(t, conv, 1)
	assert.Len(t, m.GetConversation(), 2)
}

func TestLastN(t *testing.T) {
	conv := Conversation{
		NewMessage(RoleUser, "a"),
		NewMessage(RoleAssistant, "b"),
		NewMessage(RoleUser, "c"),
	}

	assert.Len(t, conv.LastN(2), 2)
	assert.Equal(t, "b", conv.LastN(2)[0].Text)
	assert.Len(t, conv.LastN(10), 3)
	assert.Len(t, conv.LastN(0), 3)
}

func TestGetSinglePrompt(t *testing.T) {
	conv := Conversation{NewMessage(RoleUser, "just one")}
	assert.Equal(t, "just one", conv.GetSinglePrompt())

	conv = append(conv, NewMessage(RoleAssistant, "a reply"))
	assert.Equal(t, "[user]: just one\n[assistant]: a reply\n", conv.GetSinglePrompt())
}
