package bootstrap

import (
	"errors"
	"fmt"
	"unicode/utf16"

	"github.com/devicehive/setup/pkg/cmdline"
)

// BuildCommandLine returns `<installer> /i <tempPath> <args>`. args is
// forwarded verbatim, so an empty args leaves a trailing space. The
// installer and path are quoted only when they contain whitespace. A line
// longer than max (counted in UTF-16 code units plus the terminating NUL)
// is rejected; max <= 0 disables the check.
func BuildCommandLine(installer, tempPath, args string, max int) (string, error) {
	if installer == "" {
		return "", errors.New("no installer executable configured")
	}

	line := fmt.Sprintf("%s /i %s %s", cmdline.Quote(installer), cmdline.Quote(tempPath), args)

	if max > 0 {
		if n := len(utf16.Encode([]rune(line))) + 1; n > max {
			return "", fmt.Errorf("%w: %d characters, limit %d", ErrCommandLineTooLong, n, max)
		}
	}
	return line, nil
}
