package bootstrap

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
)

var (
	// ErrShortWrite is reported when a write stops early without an error.
	ErrShortWrite = errors.New("short write")

	// ErrCommandLineTooLong is reported instead of truncating the installer
	// command line.
	ErrCommandLineTooLong = errors.New("command line too long")
)

// Kind classifies a bootstrapper failure. Each kind has a fixed message.
type Kind int

const (
	KindPayload Kind = iota + 1
	KindTempName
	KindWriteTemp
	KindSpawn
)

var messages = map[Kind]string{
	KindPayload:   "failed to locate installer package",
	KindTempName:  "failed to get temporary file name",
	KindWriteTemp: "failed to write to temporary file",
	KindSpawn:     "failed to define installation folder",
}

// Message returns the text shown to the user for this kind.
func (k Kind) Message() string {
	if msg, ok := messages[k]; ok {
		return msg
	}
	return "setup failed"
}

func (k Kind) String() string {
	switch k {
	case KindPayload:
		return "payload"
	case KindTempName:
		return "temp-name"
	case KindWriteTemp:
		return "write-temp"
	case KindSpawn:
		return "spawn"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a terminal bootstrapper failure.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Message()
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the platform error code behind the failure.
func (e *Error) Code() uint32 {
	return ErrorCode(e.Err)
}

// DialogText is the body of the error dialog.
func (e *Error) DialogText() string {
	return fmt.Sprintf("%s\r\nError code: %d", e.Kind.Message(), e.Code())
}

// Win32 codes used when an error carries no errno of its own.
const (
	codeFileNotFound       = 2   // ERROR_FILE_NOT_FOUND, also ENOENT
	codeFilenameExcedRange = 206 // ERROR_FILENAME_EXCED_RANGE, what CreateProcess reports for long command lines
)

// ErrorCode extracts the platform error code from err, or 0 if it has none.
func ErrorCode(err error) uint32 {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return uint32(errno)
	}
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return codeFileNotFound
	case errors.Is(err, ErrCommandLineTooLong):
		return codeFilenameExcedRange
	}
	return 0
}
