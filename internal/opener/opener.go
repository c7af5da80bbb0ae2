// Package opener hands a file to the desktop's default application.
package opener

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Command returns the program and arguments that open path on goos.
func Command(goos, path string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{path}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	default:
		return "", nil, fmt.Errorf("opening files is not supported on %s", goos)
	}
}

// Open starts the platform opener for path without waiting for it.
func Open(path string) error {
	name, args, err := Command(runtime.GOOS, path)
	if err != nil {
		return err
	}
	bin, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s not found: %w", name, err)
	}
	cmd := exec.Command(bin, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	go cmd.Wait() //nolint:errcheck
	return nil
}
