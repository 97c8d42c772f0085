package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/help"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "q")
	assert.Contains(t, keys, "ctrl+c")
}

func TestDefaultKeyMap_HelpBinding(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Help.Keys(), "?")
}

func TestDefaultKeyMap_ScrollBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Up.Keys(), "up")
	assert.Contains(t, km.Up.Keys(), "k")
	assert.Contains(t, km.Down.Keys(), "down")
	assert.Contains(t, km.Down.Keys(), "j")
}

func TestKeyMap_ImplementsHelpKeyMap(t *testing.T) {
	var _ help.KeyMap = DefaultKeyMap()

	km := DefaultKeyMap()
	assert.Len(t, km.ShortHelp(), 2)
	assert.Len(t, km.FullHelp(), 2)
}

func TestKeyMap_HelpText(t *testing.T) {
	km := DefaultKeyMap()

	assert.Equal(t, "q", km.Quit.Help().Key)
	assert.Equal(t, "quit", km.Quit.Help().Desc)
	assert.Equal(t, "older runs", km.Down.Help().Desc)
}
