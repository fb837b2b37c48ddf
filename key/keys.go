// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Backend API - these keys locate the EduCast backend the client talks to.
const (
	APIURL     = "api.url"
	APITimeout = "api.timeout"
)

// Media Playback - these keys maintain the state and configuration for the playback engine.
const (
	Player                     = "player.default"
	PlayerSkipSeconds          = "player.skip_seconds"
	PlayerControlsHideSeconds  = "player.controls_hide_seconds"
	PlayerCompletionPercentage = "player.completion_percentage"
	PlayerVolume               = "player.volume"
)

// View & Like Tracking - these keys govern the fire-and-forget registration side effects.
const (
	TrackingEnable        = "tracking.enable"
	TrackingQueueFailures = "tracking.queue_failures"
)

// History Tracking - these keys configure the persistence of media consumption state.
const (
	HistorySaveOnWatch = "history.save_on_watch"
)

// Download - these keys configure where downloaded media lands.
const (
	DownloadDir = "download.dir"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the mini-player's styling and behavior.
const (
	TUIShowDescription = "tui.show_description"
	TUIShowThumbURL    = "tui.show_thumbnail_url"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
