// Package browser opens documentation links outside the terminal.
package browser

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Open opens rawURL with $BROWSER when set, otherwise with the platform's
// default handler. Only http and https URLs are accepted.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("browser: refusing to open %q", rawURL)
	}
	name, args, err := command(runtime.GOOS, os.Getenv("BROWSER"), u.String())
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}

// command picks the program and arguments used to open target.
func command(goos, browserEnv, target string) (string, []string, error) {
	if b := strings.TrimSpace(browserEnv); b != "" {
		// $BROWSER may hold a colon-separated list; the first entry wins.
		first := strings.Fields(strings.Split(b, string(os.PathListSeparator))[0])
		if len(first) > 0 {
			return first[0], append(first[1:], target), nil
		}
	}
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("browser: unsupported OS: %s", goos)
	}
}
