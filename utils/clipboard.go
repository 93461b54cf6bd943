package utils

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// clipboardCommands lists the clipboard writers tried per platform, in order.
var clipboardCommands = map[string][][]string{
	"darwin":  {{"pbcopy"}},
	"windows": {{"clip"}},
	"linux":   {{"wl-copy"}, {"xclip", "-selection", "clipboard"}, {"xsel", "--clipboard", "--input"}},
}

// CopyToClipboard pipes text into the platform clipboard tool. A missing
// tool is reported so the caller can warn; it never fails a cycle.
func CopyToClipboard(text string) error {
	candidates := clipboardCommands[runtime.GOOS]
	if candidates == nil {
		candidates = clipboardCommands["linux"]
	}

	for _, candidate := range candidates {
		binary, err := exec.LookPath(candidate[0])
		if err != nil {
			continue
		}
		cmd := exec.Command(binary, candidate[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("clipboard copy via %s failed: %w", candidate[0], err)
		}
		return nil
	}

	return fmt.Errorf("no clipboard tool found (tried pbcopy/wl-copy/xclip/xsel/clip)")
}
