package settings

import (
	"github.com/huandu/go-clone"
	"github.com/spf13/viper"

	"github.com/go-go-golems/marionette/pkg/responder"
)

// Provider tags name the response strategies the dispatcher can route to.
const (
	ProviderPattern  = "pattern"
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderEmbedded = "embedded"
)

type OllamaSettings struct {
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type OpenAISettings struct {
	APIKey    string `yaml:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Model     string `yaml:"model,omitempty"`
	MaxTokens int    `yaml:"max_tokens,omitempty"`
}

type EmbeddedSettings struct {
	Model string `yaml:"model,omitempty"`
}

type ChatSettings struct {
	Persona      string `yaml:"persona,omitempty"`
	HistoryTurns int    `yaml:"history_turns,omitempty"`
	MaxTurns     int    `yaml:"max_turns,omitempty"`
}

// Settings is the process-wide provider configuration. It is an explicit
// object handed to the factory rather than mutable package state; the
// With* setters return updated copies so a reconfiguration takes effect on
// the next dispatcher build, never mid-flight.
type Settings struct {
	Provider string `yaml:"provider,omitempty"`

	Chat     *ChatSettings     `yaml:"chat,omitempty"`
	Ollama   *OllamaSettings   `yaml:"ollama,omitempty"`
	OpenAI   *OpenAISettings   `yaml:"openai,omitempty"`
	Embedded *EmbeddedSettings `yaml:"embedded,omitempty"`

	PrefsPath string `yaml:"prefs_path,omitempty"`
}

func NewSettings() *Settings {
	return &Settings{
		Provider: ProviderPattern,
		Chat: &ChatSettings{
			Persona:      responder.DefaultPersona,
			HistoryTurns: responder.DefaultHistoryTurns,
			MaxTurns:     20,
		},
		Ollama:   &OllamaSettings{},
		OpenAI:   &OpenAISettings{},
		Embedded: &EmbeddedSettings{},
	}
}

func (s *Settings) Clone() *Settings {
	return clone.Clone(s).(*Settings)
}

func (s *Settings) WithProvider(provider string) *Settings {
	ret := s.Clone()
	ret.Provider = provider
	return ret
}

func (s *Settings) WithOllamaModel(model string) *Settings {
	ret := s.Clone()
	ret.Ollama.Model = model
	return ret
}

func (s *Settings) WithOllamaBaseURL(baseURL string) *Settings {
	ret := s.Clone()
	ret.Ollama.BaseURL = baseURL
	return ret
}

func (s *Settings) WithAPIKey(apiKey string) *Settings {
	ret := s.Clone()
	ret.OpenAI.APIKey = apiKey
	return ret
}

func (s *Settings) WithOpenAIModel(model string) *Settings {
	ret := s.Clone()
	ret.OpenAI.Model = model
	return ret
}

// FromViper overlays configuration file values and MARIONETTE_* environment
// variables onto defaults.
func FromViper(v *viper.Viper) *Settings {
	ret := NewSettings()

	if p := v.GetString("provider"); p != "" {
		ret.Provider = p
	}
	if p := v.GetString("chat.persona"); p != "" {
		ret.Chat.Persona = p
	}
	if n := v.GetInt("chat.history-turns"); n > 0 {
		ret.Chat.HistoryTurns = n
	}
	if n := v.GetInt("chat.max-turns"); n > 0 {
		ret.Chat.MaxTurns = n
	}
	ret.Ollama.BaseURL = v.GetString("ollama.base-url")
	ret.Ollama.Model = v.GetString("ollama.model")
	ret.OpenAI.APIKey = v.GetString("openai.api-key")
	ret.OpenAI.BaseURL = v.GetString("openai.base-url")
	ret.OpenAI.Model = v.GetString("openai.model")
	ret.OpenAI.MaxTokens = v.GetInt("openai.max-tokens")
	ret.Embedded.Model = v.GetString("embedded.model")
	ret.PrefsPath = v.GetString("prefs-path")

	return ret
}
