//go:build windows

package bootstrap

import (
	"golang.org/x/sys/windows"
)

type dialogNotifier struct{}

func newDialogNotifier() Notifier {
	return dialogNotifier{}
}

// Notify shows a modal OK/error message box and blocks until dismissed.
func (dialogNotifier) Notify(title, text string) error {
	textPtr, err := windows.UTF16PtrFromString(text)
	if err != nil {
		return err
	}
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	_, err = windows.MessageBox(0, textPtr, titlePtr, windows.MB_OK|windows.MB_ICONERROR)
	return err
}
