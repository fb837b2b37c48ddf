package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/playback"
)

// Run drives the mini-player until the viewer quits. Controller snapshots and
// notices are forwarded into the Bubble Tea loop as messages.
func Run(controller *playback.Controller, ep *episode.Episode, viewer episode.Viewer) error {
	bubble := newPlayerBubble(controller, ep, viewer)
	program := tea.NewProgram(bubble)

	controller.OnChange(func(s playback.State) {
		program.Send(stateMsg(s))
	})
	controller.OnNotice(func(message string) {
		program.Send(noticeMsg(message))
	})

	_, err := program.Run()
	return err
}
