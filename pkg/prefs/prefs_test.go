package prefs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "nope", "prefs.yaml"))
	assert.Equal(t, DefaultColor, s.GetColor())
	assert.Equal(t, DefaultVoice, s.GetVoice())
}

func TestSetAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	s := Load(path)
	s.SetColor("#ff0000")
	s.SetVoice("Samantha")

	reloaded := Load(path)
	assert.Equal(t, "#ff0000", reloaded.GetColor())
	assert.Equal(t, "Samantha", reloaded.GetVoice())
}

func TestLastValueWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	s := Load(path)
	s.SetColor("#111111")
	s.SetColor("#222222")

	assert.Equal(t, "#222222", Load(path).GetColor())
}

func TestUnwritablePathDegradesSilently(t *testing.T) {
	s := Load("/proc/does-not-exist/prefs.yaml")
	assert.NotPanics(t, func() {
		s.SetColor("#abcdef")
	})
	// the in-memory value still updates; it just doesn't persist
	assert.Equal(t, "#abcdef", s.GetColor())
}
