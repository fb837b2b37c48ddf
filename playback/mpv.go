package playback

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/educast-cli/educast/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV implements the Surface interface using mpv's JSON-IPC protocol.
// The process is launched paused; the controller owns the start command.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	mu         sync.Mutex    // Protects socket writes
}

// NewMPV creates a new MPV surface (does not start a process).
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
	}
}

// Load binds mpv to a new resource. The first call launches the process; later
// calls replace the current file via IPC, unbinding the previous resource.
func (m *MPV) Load(media Media) error {
	safeURL, err := sanitizeMediaTarget(media.URL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	safeTitle := sanitizeTitle(media.Title)

	if m.running() {
		// Replace the loaded file in the existing instance. loadfile drops all
		// observers bound to the old resource's properties implicitly.
		if _, err := m.sendCommand([]interface{}{"loadfile", safeURL, "replace"}); err != nil {
			return fmt.Errorf("loadfile: %w", err)
		}
		if err := m.Pause(); err != nil {
			return err
		}
		// The previous resource may have left subtitles visible.
		if err := m.ShowCaptions(false); err != nil {
			log.Warnf("reset sub-visibility: %v", err)
		}
		if media.CaptionPath != "" {
			if _, err := m.sendCommand([]interface{}{"sub-add", media.CaptionPath, "select"}); err != nil {
				log.Warnf("sub-add: %v", err)
			}
		}
		return nil
	}

	// Generate a random socket path using os.TempDir() for cross-platform support
	// (macOS $TMPDIR is /var/folders/... not /tmp/).
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("educast-%x.sock", randomBytes))
	}

	args := buildArgs(m.socketPath, safeURL, safeTitle, media.CaptionPath)

	m.cmd = exec.Command("mpv", args...)

	// Detach from parent process group to prevent cascading shell panics.
	m.cmd.SysProcAttr = sysProcAttr()

	// Disable standard pipes to prevent resource leaks.
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Background goroutine to reap the process and prevent zombies.
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		// If socket never became ready, kill the orphaned process.
		if m.cmd.Process != nil {
			select {
			case <-m.exited:
				// Already exited
			default:
				log.Warnf("killing mpv: socket never became ready")
				_ = m.cmd.Process.Kill()
			}
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// buildArgs assembles the mpv invocation. Only transport-relevant flags are
// passed; the user's mpv.conf is otherwise respected.
func buildArgs(socketPath, url, title, captionPath string) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		fmt.Sprintf("--force-media-title=%s", title),
		fmt.Sprintf("--title=%s", title), // Some mpv builds only respect --title
		"--force-window=yes",
		"--idle=yes",
		"--pause", // the controller issues the start command
	}

	if captionPath != "" {
		args = append(args, fmt.Sprintf("--sub-file=%s", captionPath))
		args = append(args, "--sub-visibility=no") // captions start hidden until toggled
	}

	return append(args, url)
}

// Play clears the pause flag. An IPC error is the rejection path the
// controller's optimistic transition corrects against.
func (m *MPV) Play() error {
	return m.setProperty("pause", false)
}

// Pause sets the pause flag.
func (m *MPV) Pause() error {
	return m.setProperty("pause", true)
}

// SeekTo moves playback to the given absolute position in seconds.
func (m *MPV) SeekTo(seconds float64) error {
	_, err := m.sendCommand([]interface{}{"seek", seconds, "absolute"})
	return err
}

// SetVolume applies an output volume in [0, 1] (mpv uses a 0-100 scale).
func (m *MPV) SetVolume(v float64) error {
	return m.setProperty("volume", v*100)
}

// SetMuted silences or restores the output.
func (m *MPV) SetMuted(muted bool) error {
	return m.setProperty("mute", muted)
}

// SetRate applies a playback speed multiplier without resetting position.
func (m *MPV) SetRate(r float64) error {
	return m.setProperty("speed", r)
}

// ShowCaptions toggles visibility of the loaded subtitle track.
func (m *MPV) ShowCaptions(visible bool) error {
	return m.setProperty("sub-visibility", visible)
}

// SetFullscreen requests the fullscreen state and confirms it by reading the
// property back, so a silently ignored request still surfaces as an error.
func (m *MPV) SetFullscreen(on bool) error {
	if err := m.setProperty("fullscreen", on); err != nil {
		return err
	}

	data, err := m.sendCommand([]interface{}{"get_property", "fullscreen"})
	if err != nil {
		return err
	}
	if actual, ok := data.(bool); !ok || actual != on {
		return fmt.Errorf("fullscreen request not honored")
	}
	return nil
}

// GetTimePos returns the current playback position in seconds.
func (m *MPV) GetTimePos() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// GetDuration returns the total duration of the current media in seconds.
func (m *MPV) GetDuration() (float64, error) {
	return m.getFloatProperty("duration")
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}
	if !m.running() {
		return false
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	// Try graceful quit via IPC.
	_, _ = m.sendCommand([]interface{}{"quit"})

	// Wait for process to exit (with timeout).
	select {
	case <-m.exited:
		// Clean exit
	case <-time.After(3 * time.Second):
		// Force kill if graceful quit didn't work
		_ = killProcess(m.cmd)
	}

	// Clean up the socket file.
	_ = os.Remove(m.socketPath)

	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

func (m *MPV) running() bool {
	if m.cmd == nil {
		return false
	}
	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		// Check if process already exited
		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) setProperty(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
// Prevents flag injection from untrusted episode records.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	// Reject control characters
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	// If it contains "://", validate as URL
	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the title for the mpv command line.
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	// Remove null bytes
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
