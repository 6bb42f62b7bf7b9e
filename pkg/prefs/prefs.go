package prefs

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	DefaultColor = "#33aaff"
	DefaultVoice = ""
)

// Store persists the user's startup preferences (avatar color, speech
// voice). A missing file just means "use defaults", and a failing write
// degrades to the preference not persisting; neither ever blocks the UI.
type Store struct {
	mu   sync.Mutex
	path string

	Color string `yaml:"color,omitempty"`
	Voice string `yaml:"voice,omitempty"`
}

func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".marionette", "prefs.yaml")
}

// Load reads the store from path. Absence of the file is not an error.
func Load(path string) *Store {
	ret := &Store{
		path:  path,
		Color: DefaultColor,
		Voice: DefaultVoice,
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("could not read preferences, using defaults")
		}
		return ret
	}

	if err := yaml.Unmarshal(b, ret); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not parse preferences, using defaults")
		return ret
	}

	if ret.Color == "" {
		ret.Color = DefaultColor
	}

	return ret
}

func (s *Store) GetColor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Color
}

func (s *Store) GetVoice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Voice
}

// SetColor updates the color preference and persists it. Last value wins.
func (s *Store) SetColor(color string) {
	s.mu.Lock()
	s.Color = color
	s.mu.Unlock()
	s.save()
}

func (s *Store) SetVoice(voice string) {
	s.mu.Lock()
	s.Voice = voice
	s.mu.Unlock()
	s.save()
}

func (s *Store) save() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("could not create preferences directory")
		return
	}

	b, err := yaml.Marshal(s)
	if err != nil {
		log.Warn().Err(err).Msg("could not serialize preferences")
		return
	}

	if err := os.WriteFile(s.path, b, 0644); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("could not write preferences")
	}
}
