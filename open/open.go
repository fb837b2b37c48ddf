// Package open launches URLs and files with the platform's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/educast-cli/educast/constant"
)

// launcher describes how one platform opens a target with its default
// handler and with an explicitly chosen application.
type launcher struct {
	open     func(target string) *exec.Cmd
	openWith func(target, app string) *exec.Cmd
}

var launchers = map[string]launcher{
	constant.Linux: {
		open:     func(target string) *exec.Cmd { return exec.Command("xdg-open", target) },
		openWith: func(target, app string) *exec.Cmd { return exec.Command(app, target) },
	},
	constant.Darwin: {
		open:     func(target string) *exec.Cmd { return exec.Command("open", target) },
		openWith: func(target, app string) *exec.Cmd { return exec.Command("open", "-a", app, target) },
	},
	constant.Windows: {
		open: func(target string) *exec.Cmd {
			rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
			return exec.Command(rundll, "url.dll,FileProtocolHandler", target)
		},
		openWith: func(target, app string) *exec.Cmd {
			// The Windows start command treats & as a separator inside URLs.
			escaped := strings.ReplaceAll(target, "&", "^&")
			return exec.Command("cmd", "/C", "start", "", app, escaped)
		},
	},
	constant.Android: {
		// termux has no per-app selection, it hands the choice to the user.
		open:     func(target string) *exec.Cmd { return exec.Command("termux-open", target) },
		openWith: func(target, _ string) *exec.Cmd { return exec.Command("termux-open", "--choose", target) },
	},
}

// Run opens the target with the default handler and waits for it to exit.
func Run(target string) error {
	l, ok := launchers[runtime.GOOS]
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return l.open(target).Run()
}

// Start opens the target with the default handler without waiting.
func Start(target string) error {
	l, ok := launchers[runtime.GOOS]
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return l.open(target).Start()
}

// StartWith opens the target with a specific application without waiting.
// An empty app falls back to the default handler.
func StartWith(target, app string) error {
	if app == "" {
		return Start(target)
	}

	l, ok := launchers[runtime.GOOS]
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return l.openWith(target, app).Start()
}
