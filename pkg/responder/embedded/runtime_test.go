package embedded

import (
	"context"
	"testing"

	"github.com/jmorganca/ollama/api"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/marionette/pkg/actions"
	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/responder"
)

type fakeModelAPI struct {
	pullErr   error
	pullSteps []api.ProgressResponse
	pulls     int

	chatReply string
	chatErr   error
	lastChat  *api.ChatRequest
}

func (f *fakeModelAPI) Pull(_ context.Context, _ *api.PullRequest, fn api.PullProgressFunc) error {
	f.pulls++
	if f.pullErr != nil {
		return f.pullErr
	}
	for _, step := range f.pullSteps {
		if err := fn(step); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeModelAPI) Chat(_ context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error {
	f.lastChat = req
	if f.chatErr != nil {
		return f.chatErr
	}
	return fn(api.ChatResponse{
		Message: &api.Message{Role: "assistant", Content: f.chatReply},
		Done:    true,
	})
}

func TestChatBeforeInitializeIsRecoverable(t *testing.T) {
	r := NewRuntime(&fakeModelAPI{}, "testmodel")

	_, err := r.Chat(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.False(t, r.Ready())
}

func TestInitializeReportsProgress(t *testing.T) {
	fake := &fakeModelAPI{
		pullSteps: []api.ProgressResponse{
			{Status: "pulling manifest"},
			{Status: "downloading", Total: 200, Completed: 100},
			{Status: "verifying", Total: 200, Completed: 200},
		},
	}
	r := NewRuntime(fake, "testmodel")

	var percents []int
	var statuses []string
	err := r.Initialize(context.Background(), func(percent int, status string) {
		percents = append(percents, percent)
		statuses = append(statuses, status)
	})
	require.NoError(t, err)

	assert.True(t, r.Ready())
	assert.Equal(t, []int{0, 50, 100, 100}, percents)
	assert.Equal(t, []string{"pulling manifest", "downloading", "verifying", "ready"}, statuses)
}

func TestInitializeIsIdempotentOnceReady(t *testing.T) {
	fake := &fakeModelAPI{}
	r := NewRuntime(fake, "testmodel")

	require.NoError(t, r.Initialize(context.Background(), nil))
	require.NoError(t, r.Initialize(context.Background(), nil))
	assert.Equal(t, 1, fake.pulls)
}

func TestInitializeFailureLeavesRuntimeCold(t *testing.T) {
	fake := &fakeModelAPI{pullErr: errors.New("registry unreachable")}
	r := NewRuntime(fake, "testmodel")

	err := r.Initialize(context.Background(), nil)
	require.Error(t, err)
	assert.False(t, r.Ready())
}

func TestStrategyRespondsAfterWarmup(t *testing.T) {
	fake := &fakeModelAPI{chatReply: "That sounds great to me!"}
	r := NewRuntime(fake, "testmodel")
	s := NewStrategy(r,
		WithDeriver(responder.NewAnimationDeriver(responder.WithInjectionProbability(0))),
	)

	// cold runtime first
	_, err := s.Respond(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, r.Initialize(context.Background(), nil))

	history := conversation.Conversation{
		conversation.NewMessage(conversation.RoleUser, "what do you think?"),
	}
	result, err := s.Respond(context.Background(), "shall we dance?", history)
	require.NoError(t, err)

	assert.Equal(t, "That sounds great to me!", result.Text)
	assert.Equal(t, actions.ThumbsUp, result.Animation)

	require.NotNil(t, fake.lastChat)
	assert.Equal(t, "testmodel", fake.lastChat.Model)
	require.NotEmpty(t, fake.lastChat.Messages)
	assert.Equal(t, "system", fake.lastChat.Messages[0].Role)
}
