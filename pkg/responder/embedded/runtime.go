package embedded

import (
	"context"
	"sync"

	"github.com/jmorganca/ollama/api"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/marionette/pkg/events"
)

// ErrNotInitialized is returned when the runtime is used before its
// explicit initialization step has completed. Recoverable, never a crash.
var ErrNotInitialized = errors.New("embedded runtime has not been initialized")

// ProgressFunc receives initialization progress as a percentage and a
// free-text status line.
type ProgressFunc func(percent int, status string)

// ModelAPI is the slice of the ollama client the runtime needs. Narrowed to
// an interface so tests can substitute a fake; *api.Client satisfies it.
type ModelAPI interface {
	Pull(ctx context.Context, req *api.PullRequest, fn api.PullProgressFunc) error
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// Runtime is a locally hosted model runtime with an explicit warm-up step.
// Initialize pulls the model weights, reporting progress; Chat is only
// available once the runtime reports ready.
type Runtime struct {
	mu     sync.Mutex
	client ModelAPI
	model  string
	ready  bool

	publisherManager *events.PublisherManager
}

type RuntimeOption func(*Runtime)

func WithPublisherManager(pm *events.PublisherManager) RuntimeOption {
	return func(r *Runtime) {
		r.publisherManager = pm
	}
}

func NewRuntime(client ModelAPI, model string, options ...RuntimeOption) *Runtime {
	ret := &Runtime{
		client: client,
		model:  model,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Initialize pulls the model and flips the readiness flag. It is idempotent
// once complete; calling it again is a cheap no-op.
func (r *Runtime) Initialize(ctx context.Context, progress ProgressFunc) error {
	r.mu.Lock()
	if r.ready {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	stream := true
	err := r.client.Pull(ctx, &api.PullRequest{
		Name:   r.model,
		Stream: &stream,
	}, func(resp api.ProgressResponse) error {
		percent := 0
		if resp.Total > 0 {
			percent = int(resp.Completed * 100 / resp.Total)
		}
		if progress != nil {
			progress(percent, resp.Status)
		}
		r.publishProgress(percent, resp.Status)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to pull model")
	}

	r.mu.Lock()
	r.ready = true
	r.mu.Unlock()

	log.Info().Str("model", r.model).Msg("embedded runtime initialized")
	if progress != nil {
		progress(100, "ready")
	}
	return nil
}

func (r *Runtime) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

// Chat requests a completion from the warm runtime for a structured message
// list. Calling before Initialize has completed returns ErrNotInitialized.
func (r *Runtime) Chat(ctx context.Context, messages []api.Message) (string, error) {
	if !r.Ready() {
		return "", ErrNotInitialized
	}

	stream := false
	text := ""
	err := r.client.Chat(ctx, &api.ChatRequest{
		Model:    r.model,
		Messages: messages,
		Stream:   &stream,
	}, func(resp api.ChatResponse) error {
		text += resp.Message.Content
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "chat request failed")
	}

	return text, nil
}

func (r *Runtime) publishProgress(percent int, status string) {
	if r.publisherManager == nil {
		return
	}
	r.publisherManager.PublishBlind(&events.EventRuntimeProgress{
		Event:   events.NewEvent(events.EventTypeRuntimeProgress),
		Percent: percent,
		Status:  status,
	})
}
