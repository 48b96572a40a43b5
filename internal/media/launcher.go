package media

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/pders01/reel/internal/config"
)

// Launcher opens movie pages and posters with the desktop opener.
type Launcher struct {
	opener string
	start  func(name string, args ...string) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	opener := cfg.Media.DefaultOpener
	if opener == "" {
		opener = findCommand(defaultOpeners()...)
	}

	return &Launcher{
		opener: opener,
		start:  startDetached,
	}
}

// Opener is the command used to open URLs.
func (l *Launcher) Opener() string {
	return l.opener
}

// Open hands an http(s) URL to the opener without waiting for it to exit.
func (l *Launcher) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: only http and https URLs are supported", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", rawURL)
	}

	if l.opener == "" {
		return fmt.Errorf("no application found to open URL")
	}

	name, args := commandFor(l.opener, rawURL)
	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}
	return nil
}

// commandFor adapts openers that are shell builtins rather than binaries.
func commandFor(opener, target string) (string, []string) {
	if opener == "start" {
		return "cmd", []string{"/c", "start", "", target}
	}
	return opener, []string{target}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

func defaultOpeners() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"start"}
	default:
		return []string{"xdg-open", "gio", "sensible-browser", "open"}
	}
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if cmd == "start" {
			return cmd
		}
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
