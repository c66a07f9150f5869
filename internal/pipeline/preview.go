package pipeline

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenInBrowser opens path with the platform's default handler.
func OpenInBrowser(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	// the viewer outlives us
	go cmd.Wait()
	return nil
}
