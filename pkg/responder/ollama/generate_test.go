package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/marionette/pkg/actions"
	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/responder"
	"github.com/go-go-golems/marionette/pkg/responder/pattern"
)

func newGenerateServer(t *testing.T, response string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "testmodel", req["model"])
		assert.Contains(t, req["prompt"], "Human:")

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"response": response,
			"done":     true,
		})
	}))
}

func TestRespondExtractsAndTrimsText(t *testing.T) {
	srv := newGenerateServer(t, "  Hello, nice to meet you!  \n", http.StatusOK)
	defer srv.Close()

	s := NewStrategy(
		WithBaseURL(srv.URL),
		WithModel("testmodel"),
		WithDeriver(responder.NewAnimationDeriver(responder.WithInjectionProbability(0))),
	)

	history := conversation.Conversation{
		conversation.NewMessage(conversation.RoleUser, "hi there"),
	}
	result, err := s.Respond(context.Background(), "introduce yourself", history)
	require.NoError(t, err)

	assert.Equal(t, "Hello, nice to meet you!", result.Text)
	// "Hello" hits the wave keyword family
	assert.Equal(t, actions.Wave, result.Animation)
	assert.Nil(t, result.Expression)
}

func TestRespondNonSuccessStatusIsRecoverable(t *testing.T) {
	srv := newGenerateServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	s := NewStrategy(WithBaseURL(srv.URL), WithModel("testmodel"))

	_, err := s.Respond(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code")
}

func TestRespondTransportFailureIsRecoverable(t *testing.T) {
	s := NewStrategy(WithBaseURL("http://127.0.0.1:1"), WithModel("testmodel"))

	_, err := s.Respond(context.Background(), "hi", nil)
	require.Error(t, err)
}

// A failing generate backend must be indistinguishable, shape-wise, from a
// direct pattern call once the dispatcher is done with it.
func TestDispatcherFallbackShape(t *testing.T) {
	srv := newGenerateServer(t, "", http.StatusBadGateway)
	defer srv.Close()

	fallback := pattern.NewStrategy()
	d := responder.NewDispatcher(fallback)
	d.Register(NewStrategy(WithBaseURL(srv.URL), WithModel("testmodel")))
	require.NoError(t, d.Select("ollama"))

	viaFallback := d.Dispatch(context.Background(), "hello friend", nil)
	direct, err := fallback.Respond(context.Background(), "hello friend", nil)
	require.NoError(t, err)

	require.NotNil(t, viaFallback)
	assert.Contains(t, pattern.DefaultRules()[0].Replies, viaFallback.Text)
	assert.Contains(t, pattern.DefaultRules()[0].Replies, direct.Text)
	assert.True(t, viaFallback.Animation == actions.Wave || viaFallback.Animation == actions.ThumbsUp)
	require.NotNil(t, viaFallback.Expression)
	assert.Equal(t, direct.Expression.Name, viaFallback.Expression.Name)
}
