// Package cmdline handles process command lines the way Windows does.
//
// Windows passes a process one flat string rather than an argv array. The
// bootstrapper forwards that string untouched, so everything here follows the
// CommandLineToArgvW rules rather than POSIX shell rules:
//
//   - arguments are separated by spaces or tabs outside double quotes
//   - 2n backslashes before a quote yield n backslashes and toggle quoting
//   - 2n+1 backslashes before a quote yield n backslashes and a literal quote
//   - backslashes not followed by a quote are literal
//   - inside quotes, "" yields a literal quote
//
// The program name (argv[0]) is special: it ends at the next quote when it
// starts with one, otherwise at the first whitespace, and backslashes in it
// are never interpreted.
package cmdline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnclosedQuote is returned when a quoted argument is not closed.
var ErrUnclosedQuote = errors.New("unclosed quote in command line")

// Split parses a command line into arguments.
// Empty input returns an empty slice.
func Split(s string) ([]string, error) {
	args := []string{}
	var cur strings.Builder
	inArg, inQuote := false, false

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\\':
			n := 0
			for i < len(s) && s[i] == '\\' {
				n++
				i++
			}
			inArg = true
			if i < len(s) && s[i] == '"' {
				cur.WriteString(strings.Repeat(`\`, n/2))
				if n%2 == 1 {
					cur.WriteByte('"')
					i++
				}
				// An even run leaves the quote to toggle on the next pass.
			} else {
				cur.WriteString(strings.Repeat(`\`, n))
			}

		case c == '"':
			inArg = true
			if inQuote && i+1 < len(s) && s[i+1] == '"' {
				cur.WriteByte('"')
				i += 2
				continue
			}
			inQuote = !inQuote
			i++

		case isSpace(c) && !inQuote:
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
			i++

		default:
			inArg = true
			cur.WriteByte(c)
			i++
		}
	}

	if inQuote {
		return nil, fmt.Errorf("%w: %q", ErrUnclosedQuote, s)
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}

// Program returns argv[0] of a full command line, without its quotes.
func Program(s string) string {
	name, _ := cutProgram(s)
	return name
}

// Tail returns the command line with the program name and the whitespace
// after it removed. This is what WinMain receives as lpCmdLine.
func Tail(s string) string {
	_, rest := cutProgram(s)
	return strings.TrimLeft(rest, " \t")
}

func cutProgram(s string) (string, string) {
	if strings.HasPrefix(s, `"`) {
		end := strings.IndexByte(s[1:], '"')
		if end < 0 {
			return s[1:], ""
		}
		return s[1 : end+1], s[end+2:]
	}
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// Quote returns arg in a form Split reads back as a single argument.
func Quote(arg string) string {
	if arg == "" {
		return `""`
	}
	if !strings.ContainsAny(arg, " \t\"") {
		return arg
	}

	var b strings.Builder
	b.WriteByte('"')
	slashes := 0
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		switch c {
		case '\\':
			slashes++
		case '"':
			b.WriteString(strings.Repeat(`\`, slashes+1))
			slashes = 0
		default:
			slashes = 0
		}
		b.WriteByte(c)
	}
	b.WriteString(strings.Repeat(`\`, slashes))
	b.WriteByte('"')
	return b.String()
}

// Join quotes each argument as needed and joins them with spaces.
func Join(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = Quote(arg)
	}
	return strings.Join(quoted, " ")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
