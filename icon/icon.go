// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, or plain ASCII
// depending on user preference.
package icon

import (
	"github.com/educast-cli/educast/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji string
	nerd  string
	plain string
}

// Get retrieves the visual representation for the receiver based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

// Icon identifies a UI symbol in the global registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Warning
	Play
	Pause
	Audio
	Video
	Volume
	Muted
	Captions
	Fullscreen
	Download
	Share
	Like
	Progress
)

var icons = map[Icon]*iconDef{
	Success:    {emoji: "✅", nerd: "", plain: "[ok]"},
	Fail:       {emoji: "❌", nerd: "", plain: "[fail]"},
	Warning:    {emoji: "⚠️", nerd: "", plain: "[warn]"},
	Play:       {emoji: "▶️", nerd: "", plain: ">"},
	Pause:      {emoji: "⏸️", nerd: "", plain: "||"},
	Audio:      {emoji: "🎧", nerd: "", plain: "(a)"},
	Video:      {emoji: "🎬", nerd: "", plain: "(v)"},
	Volume:     {emoji: "🔊", nerd: "", plain: "vol"},
	Muted:      {emoji: "🔇", nerd: "", plain: "mut"},
	Captions:   {emoji: "💬", nerd: "", plain: "cc"},
	Fullscreen: {emoji: "🖥️", nerd: "", plain: "fs"},
	Download:   {emoji: "📥", nerd: "", plain: "dl"},
	Share:      {emoji: "🔗", nerd: "", plain: "sh"},
	Like:       {emoji: "❤️", nerd: "", plain: "<3"},
	Progress:   {emoji: "⏳", nerd: "", plain: "..."},
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	return icons[i].Get()
}
