package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/history"
	"github.com/educast-cli/educast/icon"
	"github.com/educast-cli/educast/key"
	"github.com/educast-cli/educast/log"
	"github.com/educast-cli/educast/playback"
	"github.com/educast-cli/educast/share"
	"github.com/educast-cli/educast/style"
	"github.com/educast-cli/educast/tracking"
	"github.com/educast-cli/educast/util"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/viper"
)

// noticeLifetime is how long a transient notification stays on screen.
const noticeLifetime = 4 * time.Second

type (
	stateMsg         playback.State
	noticeMsg        string
	noticeExpiredMsg int
)

// playerBubble renders controller snapshots and translates key presses into
// transport commands. It holds no transport state of its own.
type playerBubble struct {
	controller *playback.Controller
	ep         *episode.Episode
	viewer     episode.Viewer
	tracker    *tracking.Client

	snapshot playback.State

	keymap    *playerKeymap
	progressC progress.Model
	helpC     help.Model

	notice   string
	noticeID int

	width, height int
}

func newPlayerBubble(controller *playback.Controller, ep *episode.Episode, viewer episode.Viewer) *playerBubble {
	progressC := progress.New(progress.WithDefaultGradient())
	progressC.ShowPercentage = false

	return &playerBubble{
		controller: controller,
		ep:         ep,
		viewer:     viewer,
		tracker:    tracking.New(),
		snapshot:   controller.State(),
		keymap:     newPlayerKeymap(controller.Capabilities()),
		progressC:  progressC,
		helpC:      help.New(),
	}
}

func (b *playerBubble) Init() tea.Cmd {
	return nil
}

// showNotice replaces the current notification and schedules its expiry.
func (b *playerBubble) showNotice(message string) tea.Cmd {
	b.notice = message
	b.noticeID++
	id := b.noticeID
	return tea.Tick(noticeLifetime, func(time.Time) tea.Msg {
		return noticeExpiredMsg(id)
	})
}

func (b *playerBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.progressC.Width = util.Clamp(msg.Width-10, 10, 80)
		b.helpC.Width = msg.Width
		return b, nil

	case stateMsg:
		b.snapshot = playback.State(msg)
		return b, nil

	case noticeMsg:
		return b, b.showNotice(string(msg))

	case noticeExpiredMsg:
		if int(msg) == b.noticeID {
			b.notice = ""
		}
		return b, nil

	case tea.KeyMsg:
		return b.handleKey(msg)
	}

	return b, nil
}

func (b *playerBubble) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any interaction counts as pointer activity for the auto-hide timer.
	b.controller.PointerActivity()

	skip := viper.GetFloat64(key.PlayerSkipSeconds)
	if skip <= 0 {
		skip = 10
	}

	keymap := b.keymap
	switch {
	case bubblesKey.Matches(msg, keymap.forceQuit):
		return b, tea.Quit

	case bubblesKey.Matches(msg, keymap.quit):
		b.saveProgress()
		return b, tea.Quit

	case bubblesKey.Matches(msg, keymap.playPause):
		b.command(b.controller.TogglePlay)

	case bubblesKey.Matches(msg, keymap.seekForward):
		b.command(func() error { return b.controller.Skip(skip) })

	case bubblesKey.Matches(msg, keymap.seekBack):
		b.command(func() error { return b.controller.Skip(-skip) })

	case bubblesKey.Matches(msg, keymap.volumeUp):
		b.command(func() error { return b.controller.SetVolume(b.snapshot.Volume + 0.05) })

	case bubblesKey.Matches(msg, keymap.volumeDown):
		b.command(func() error { return b.controller.SetVolume(b.snapshot.Volume - 0.05) })

	case bubblesKey.Matches(msg, keymap.mute):
		b.command(b.controller.ToggleMute)

	case bubblesKey.Matches(msg, keymap.rateUp), bubblesKey.Matches(msg, keymap.rateDown):
		b.command(b.controller.CycleRate)

	case bubblesKey.Matches(msg, keymap.captions):
		b.command(b.controller.ToggleCaptions)

	case bubblesKey.Matches(msg, keymap.fullscreen):
		b.command(b.controller.ToggleFullscreen)

	case bubblesKey.Matches(msg, keymap.download):
		return b, b.downloadCmd()

	case bubblesKey.Matches(msg, keymap.share):
		return b, b.shareCmd()

	case bubblesKey.Matches(msg, keymap.like):
		return b, b.likeCmd()

	case bubblesKey.Matches(msg, keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return b, nil
}

// command runs a transport command, logging failures instead of crashing the UI.
func (b *playerBubble) command(fn func() error) {
	if err := fn(); err != nil {
		log.Warnf("transport command: %v", err)
	}
}

func (b *playerBubble) downloadCmd() tea.Cmd {
	ep := b.ep
	return func() tea.Msg {
		path, err := share.Download(ep)
		if err != nil {
			return noticeMsg(fmt.Sprintf("%s Download failed: %v", icon.Get(icon.Fail), err))
		}
		return noticeMsg(fmt.Sprintf("%s Saved to %s", icon.Get(icon.Download), path))
	}
}

func (b *playerBubble) shareCmd() tea.Cmd {
	ep := b.ep
	return func() tea.Msg {
		outcome, err := share.Episode(ep)
		if err != nil {
			return noticeMsg(fmt.Sprintf("%s Share failed: %v", icon.Get(icon.Fail), err))
		}
		if outcome == share.CopiedToClipboard {
			return noticeMsg(fmt.Sprintf("%s Link copied to clipboard", icon.Get(icon.Share)))
		}
		return noticeMsg(fmt.Sprintf("%s Shared", icon.Get(icon.Share)))
	}
}

func (b *playerBubble) likeCmd() tea.Cmd {
	ep, viewer, tracker := b.ep, b.viewer, b.tracker
	return func() tea.Msg {
		if err := tracker.ToggleLike(ep, viewer); err != nil {
			return noticeMsg(fmt.Sprintf("%s Like not registered", icon.Get(icon.Fail)))
		}
		return noticeMsg(icon.Get(icon.Like) + " Liked")
	}
}

// saveProgress records the watched percentage before the player exits.
func (b *playerBubble) saveProgress() {
	if !viper.GetBool(key.HistorySaveOnWatch) {
		return
	}
	if err := history.Save(b.ep, b.snapshot.Progress()); err != nil {
		log.Warnf("save history: %v", err)
	}
}

func (b *playerBubble) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title(b.ep.Title))
	sb.WriteString("\n")

	if viper.GetBool(key.TUIShowThumbURL) {
		if thumb, ok := b.ep.Thumbnail.Get(); ok {
			sb.WriteString(style.Faint(thumb))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")

	sb.WriteString(b.transportLine())
	sb.WriteString("\n")
	sb.WriteString(b.progressLine())
	sb.WriteString("\n")

	if viper.GetBool(key.TUIShowDescription) && b.ep.Description != "" {
		width := util.Clamp(b.width, 20, 80)
		sb.WriteString("\n")
		sb.WriteString(style.Faint(wordwrap.String(b.ep.Description, width)))
		sb.WriteString("\n")
	}

	if b.notice != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Fg(style.WarningColor)(b.notice))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(b.helpC.View(b.keymap))

	return sb.String()
}

// transportLine renders the status, volume, rate and toggle badges.
func (b *playerBubble) transportLine() string {
	s := b.snapshot

	statusIcon := icon.Get(icon.Play)
	if s.IsPlaying() {
		statusIcon = icon.Get(icon.Pause)
	}

	parts := []string{
		statusIcon,
		style.Bold(util.Capitalize(s.Status.String())),
	}

	if s.Muted {
		parts = append(parts, icon.Get(icon.Muted))
	} else {
		parts = append(parts, fmt.Sprintf("%s %d%%", icon.Get(icon.Volume), int(s.Volume*100)))
	}

	if s.Rate != 1 {
		parts = append(parts, fmt.Sprintf("%gx", s.Rate))
	}
	if s.CaptionsEnabled {
		parts = append(parts, icon.Get(icon.Captions))
	}
	if s.Fullscreen {
		parts = append(parts, icon.Get(icon.Fullscreen))
	}

	return strings.Join(parts, "  ")
}

func (b *playerBubble) progressLine() string {
	s := b.snapshot

	bar := b.progressC.ViewAs(s.Progress() / 100)
	elapsed := util.FormatDuration(s.CurrentTime)

	total := "--:--"
	if s.Duration > 0 {
		total = util.FormatDuration(s.Duration)
	}

	return fmt.Sprintf("%s %s/%s", bar, elapsed, style.Faint(total))
}
