// Package browser hands URLs to the desktop's default browser.
package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrUnsupportedPlatform is returned when no opener is known for the OS.
var ErrUnsupportedPlatform = errors.New("no browser opener for this platform")

// Opener implements danger.Navigator by launching the system opener.
// A terminal has no current page to replace, so Navigate and Open behave
// the same.
type Opener struct {
	// GOOS overrides runtime.GOOS.
	GOOS string
	// Start runs the command. Defaults to (*exec.Cmd).Start.
	Start func(cmd *exec.Cmd) error
}

// Navigate implements danger.Navigator.
func (o Opener) Navigate(url string) error {
	return o.Open(url)
}

// Open implements danger.Navigator.
func (o Opener) Open(url string) error {
	cmd, err := Command(o.goos(), url)
	if err != nil {
		return err
	}
	start := o.Start
	if start == nil {
		start = (*exec.Cmd).Start
	}
	if err := start(cmd); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

func (o Opener) goos() string {
	if o.GOOS != "" {
		return o.GOOS
	}
	return runtime.GOOS
}

// Command builds the opener invocation for goos.
func Command(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", url), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", url), nil
	default:
		return nil, ErrUnsupportedPlatform
	}
}
