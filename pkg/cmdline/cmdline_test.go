package cmdline

import (
	"errors"
	"testing"
)

func TestSplit_Basic(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty string", input: "", expected: []string{}},
		{name: "only spaces", input: "   \t ", expected: []string{}},
		{name: "single word", input: "msiexec", expected: []string{"msiexec"}},
		{name: "installer invocation", input: `msiexec /i C:\Temp\NEW1A2B.tmp `, expected: []string{"msiexec", "/i", `C:\Temp\NEW1A2B.tmp`}},
		{name: "tabs and spaces", input: "a\tb  \t c", expected: []string{"a", "b", "c"}},
		{name: "quoted path", input: `msiexec /i "C:\Program Files\x.msi"`, expected: []string{"msiexec", "/i", `C:\Program Files\x.msi`}},
		{name: "property with quotes", input: `INSTALLDIR="C:\My App"`, expected: []string{`INSTALLDIR=C:\My App`}},
		{name: "empty quoted argument", input: `a "" b`, expected: []string{"a", "", "b"}},
		{name: "doubled quote inside quotes", input: `"say ""hi"""`, expected: []string{`say "hi"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Split(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slicesEqual(result, tt.expected) {
				t.Errorf("Split(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSplit_Backslashes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "literal backslashes", input: `a\\b c\d`, expected: []string{`a\\b`, `c\d`}},
		{name: "odd run escapes quote", input: `a\"b`, expected: []string{`a"b`}},
		{name: "even run toggles quote", input: `"a\\" b`, expected: []string{`a\`, "b"}},
		{name: "triple before quote", input: `a\\\"b`, expected: []string{`a\"b`}},
		{name: "trailing backslash", input: `C:\Temp\`, expected: []string{`C:\Temp\`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Split(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slicesEqual(result, tt.expected) {
				t.Errorf("Split(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSplit_UnclosedQuote(t *testing.T) {
	_, err := Split(`msiexec /i "C:\Temp\x.tmp`)
	if !errors.Is(err, ErrUnclosedQuote) {
		t.Fatalf("expected ErrUnclosedQuote, got %v", err)
	}
}

func TestTailAndProgram(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantProgram string
		wantTail    string
	}{
		{name: "bare program", input: `setup.exe`, wantProgram: "setup.exe", wantTail: ""},
		{name: "bare with args", input: `setup.exe /quiet  /norestart`, wantProgram: "setup.exe", wantTail: "/quiet  /norestart"},
		{name: "quoted program", input: `"C:\Program Files\setup.exe" /qn`, wantProgram: `C:\Program Files\setup.exe`, wantTail: "/qn"},
		{name: "quoted program no args", input: `"C:\a b\setup.exe"`, wantProgram: `C:\a b\setup.exe`, wantTail: ""},
		{name: "backslash not interpreted", input: `C:\x\"setup.exe a`, wantProgram: `C:\x\"setup.exe`, wantTail: "a"},
		{name: "unterminated quote", input: `"C:\setup.exe`, wantProgram: `C:\setup.exe`, wantTail: ""},
		{name: "tail keeps inner spacing", input: "setup.exe\t\tA=\"1 2\"  B", wantProgram: "setup.exe", wantTail: "A=\"1 2\"  B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Program(tt.input); got != tt.wantProgram {
				t.Errorf("Program(%q) = %q, want %q", tt.input, got, tt.wantProgram)
			}
			if got := Tail(tt.input); got != tt.wantTail {
				t.Errorf("Tail(%q) = %q, want %q", tt.input, got, tt.wantTail)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", `""`},
		{"simple", "simple"},
		{`C:\Temp\NEW.tmp`, `C:\Temp\NEW.tmp`},
		{`C:\My Temp\NEW.tmp`, `"C:\My Temp\NEW.tmp"`},
		{`a"b`, `"a\"b"`},
		{`dir with\`, `"dir with\\"`},
		{`x\"y z`, `"x\\\"y z"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Quote(tt.input); got != tt.expected {
				t.Errorf("Quote(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestJoinSplitInverse(t *testing.T) {
	inputs := [][]string{
		{"msiexec", "/i", `C:\Users\Jo Smith\AppData\Local\Temp\NEW0A1B2C3D.tmp`},
		{"/qn", `INSTALLDIR=C:\Program Files\DeviceHive\`, ""},
		{`quote"inside`, `trailing\`, `both\" mixed \\`},
	}

	for _, args := range inputs {
		joined := Join(args)
		back, err := Split(joined)
		if err != nil {
			t.Fatalf("Split(Join(%q)) error: %v", args, err)
		}
		if !slicesEqual(back, args) {
			t.Errorf("Split(%s) = %q, want %q", joined, back, args)
		}
	}
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
