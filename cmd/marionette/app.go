package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-go-golems/marionette/pkg/actions"
	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/events"
	"github.com/go-go-golems/marionette/pkg/prefs"
	"github.com/go-go-golems/marionette/pkg/responder"
	"github.com/go-go-golems/marionette/pkg/responder/embedded"
	"github.com/go-go-golems/marionette/pkg/settings"
	"github.com/go-go-golems/marionette/pkg/transcript"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// app wires the full pipeline: settings resolved from viper, the dispatcher
// over all four strategies, a headless animation coordinator, the bounded
// conversation window, preferences and the transcript.
type app struct {
	settings    *settings.Settings
	dispatcher  *responder.Dispatcher
	runtime     *embedded.Runtime
	coordinator *actions.Coordinator
	manager     *conversation.ManagerImpl
	transcript  *transcript.Transcript
	prefs       *prefs.Store
	publisher   *events.PublisherManager
}

// logRig stands in for a rendered face when marionette runs in a terminal.
type logRig struct{}

func (logRig) SetInfluence(name string, weight float64) {
	log.Debug().Str("expression", name).Float64("weight", weight).Msg("set influence")
}

func headlessClips() map[actions.Name]actions.Clip {
	clips := map[actions.Name]actions.Clip{}
	for _, name := range actions.States() {
		clips[name] = actions.NewTimerClip(name, 0)
	}
	for _, name := range actions.Emotes() {
		clips[name] = actions.NewTimerClip(name, 1200*time.Millisecond)
	}
	return clips
}

func newApp() (*app, error) {
	s := settings.FromViper(viper.GetViper())

	publisher := events.NewPublisherManager()

	factory := &settings.StandardDispatcherFactory{
		Settings:         s,
		PublisherManager: publisher,
	}
	dispatcher, runtime, err := factory.NewDispatcher()
	if err != nil {
		return nil, errors.Wrap(err, "could not build dispatcher")
	}

	prefsPath := s.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	store := prefs.Load(prefsPath)

	coordinator := actions.NewCoordinator(
		headlessClips(), logRig{},
		actions.WithPublisherManager(publisher),
	)

	manager := conversation.NewManager(
		conversation.WithMaxTurns(s.Chat.MaxTurns),
	)

	tr := transcript.NewTranscript(
		transcript.WithVoice(store.GetVoice),
		transcript.WithPublisherManager(publisher),
	)

	a := &app{
		settings:    s,
		dispatcher:  dispatcher,
		runtime:     runtime,
		coordinator: coordinator,
		manager:     manager,
		transcript:  tr,
		prefs:       store,
		publisher:   publisher,
	}

	if err := a.wireFallbackNotices(); err != nil {
		return nil, errors.Wrap(err, "could not subscribe to chat events")
	}

	return a, nil
}

// wireFallbackNotices surfaces strategy failures in the transcript as system
// notices, so a fallback to the pattern strategy is visible to the user and
// not just in the logs.
func (a *app) wireFallbackNotices() error {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	a.publisher.SubscribePublisher("chat-events", pubSub)

	messages, err := pubSub.Subscribe(context.Background(), "chat-events")
	if err != nil {
		return err
	}

	go a.forwardFallbackNotices(messages)
	return nil
}

func (a *app) forwardFallbackNotices(messages <-chan *message.Message) {
	for msg := range messages {
		var base events.Event
		if err := json.Unmarshal(msg.Payload, &base); err != nil {
			msg.Ack()
			continue
		}
		if base.Type != events.EventTypeFallback {
			msg.Ack()
			continue
		}

		var ev events.EventFallback
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			msg.Ack()
			continue
		}

		a.transcript.AddMessage(
			fmt.Sprintf("%s backend unavailable, using offline replies (%s)", ev.Strategy, ev.Reason),
			transcript.RoleSystem,
		)
		msg.Ack()
	}
}

// handleMessage runs one turn of the conversation: record the user message,
// dispatch it, apply the animation and expression suggestions, and record
// the reply.
func (a *app) handleMessage(ctx context.Context, text string) *responder.Result {
	a.transcript.AddMessage(text, transcript.RoleUser)
	history := a.manager.GetConversation()

	result := a.dispatcher.Dispatch(ctx, text, history)

	a.manager.AppendMessages(
		conversation.NewMessage(conversation.RoleUser, text),
		conversation.NewMessage(conversation.RoleAssistant, result.Text),
	)
	a.transcript.AddMessage(result.Text, transcript.RoleAssistant)

	a.applyAnimation(result)

	return result
}

func (a *app) applyAnimation(result *responder.Result) {
	if result.Animation != "" {
		if result.Animation.IsEmote() {
			a.coordinator.PlayEmote(result.Animation, actions.DefaultBlendDuration)
		} else {
			a.coordinator.SetState(result.Animation, actions.DefaultBlendDuration)
		}
	}
	if result.Expression != nil {
		a.coordinator.SetExpression(result.Expression.Name, result.Expression.Weight)
	}
}
