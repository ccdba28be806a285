package clipboard

import (
	"bytes"
	"fmt"
	"os/exec"
	"runtime"
)

// Writer copies text to the system clipboard through platform tools
// (pbcopy on macOS, xclip or wl-copy on Linux).
type Writer struct{}

// NewWriter creates a clipboard writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Enabled reports whether this platform is expected to have a clipboard
// tool available.
func (w *Writer) Enabled() bool {
	switch runtime.GOOS {
	case "darwin", "linux":
		return true
	default:
		return false
	}
}

// Copy writes text to the system clipboard.
func (w *Writer) Copy(text string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else if _, err := exec.LookPath("wl-copy"); err == nil {
			cmd = exec.Command("wl-copy")
		} else {
			return fmt.Errorf("no clipboard utility found, install xclip or wl-clipboard")
		}
	default:
		return fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}

	cmd.Stdin = bytes.NewBufferString(text)
	return cmd.Run()
}
