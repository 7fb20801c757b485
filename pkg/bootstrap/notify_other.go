//go:build !windows

package bootstrap

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// consoleNotifier prints the dialog text where no message box exists.
type consoleNotifier struct {
	w io.Writer
}

func newDialogNotifier() Notifier {
	return &consoleNotifier{w: os.Stderr}
}

func (n *consoleNotifier) Notify(title, text string) error {
	_, err := fmt.Fprintf(n.w, "%s: %s\n", title, strings.ReplaceAll(text, "\r\n", "\n"))
	return err
}
