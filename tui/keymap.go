// Package tui implements the terminal mini-player rendering adapter.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/educast-cli/educast/playback"
)

// playerKeymap defines the keyboard interactions available in the mini-player.
type playerKeymap struct {
	caps playback.Capabilities

	playPause,
	seekForward, seekBack,
	volumeUp, volumeDown, mute,
	rateUp, rateDown,
	captions, fullscreen,
	download, share, like,
	showHelp,
	quit, forceQuit key.Binding
}

func newPlayerKeymap(caps playback.Capabilities) *playerKeymap {
	return &playerKeymap{
		caps: caps,
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "seek forward"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "seek back"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "volume down"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		rateUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		rateDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "slower"),
		),
		captions: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "captions"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "share"),
		),
		like: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "like"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k *playerKeymap) ShortHelp() []key.Binding {
	return []key.Binding{k.playPause, k.seekForward, k.volumeUp, k.mute, k.showHelp, k.quit}
}

func (k *playerKeymap) FullHelp() [][]key.Binding {
	transport := []key.Binding{k.playPause, k.seekForward, k.seekBack, k.rateUp, k.rateDown}
	sound := []key.Binding{k.volumeUp, k.volumeDown, k.mute}

	extras := []key.Binding{k.download, k.share, k.like, k.quit}
	if k.caps.Captions {
		extras = append([]key.Binding{k.captions}, extras...)
	}
	if k.caps.Fullscreen {
		extras = append([]key.Binding{k.fullscreen}, extras...)
	}

	return [][]key.Binding{transport, sound, extras}
}
