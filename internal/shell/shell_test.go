package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/tympanix/gosh/internal/config"
	"github.com/tympanix/gosh/internal/testutil"
	"github.com/tympanix/gosh/internal/workdir"
)

type testShell struct {
	*Shell
	out *bytes.Buffer
	err *bytes.Buffer
	dir string
}

func newTestShell(t *testing.T, input string, mutate ...func(*Options)) *testShell {
	t.Helper()
	dir := t.TempDir()
	fs := afero.NewOsFs()
	cfg := &config.Config{
		Home:              dir,
		Path:              os.Getenv("PATH"),
		Prompt:            config.DefaultPrompt,
		Color:             config.ColorNever,
		ProgressThreshold: config.DefaultProgressThreshold,
	}
	opts := Options{
		Config: cfg,
		Fs:     fs,
		Dir:    workdir.At(fs, dir, dir),
		Quiet:  true,
	}
	for _, m := range mutate {
		m(&opts)
	}

	var out, errb bytes.Buffer
	s, err := New(strings.NewReader(input), &out, &errb, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &testShell{Shell: s, out: &out, err: &errb, dir: dir}
}

func (ts *testShell) write(t *testing.T, name, content string, perm os.FileMode) {
	t.Helper()
	testutil.WriteFile(t, ts.ops.Fs(), filepath.Join(ts.dir, name), content, perm)
}

func (ts *testShell) run(t *testing.T) int {
	t.Helper()
	code, err := ts.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return code
}

func (ts *testShell) exec(line string) int {
	ts.out.Reset()
	ts.err.Reset()
	code, _ := ts.Execute(context.Background(), line)
	return code
}

func TestRunEndOfInput(t *testing.T) {
	ts := newTestShell(t, "")
	if code := ts.run(t); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRunExit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  int
		out   string
	}{
		{"no code", "echo hi\nexit\necho never\n", 0, "hi\n"},
		{"with code", "echo hi\nexit 3\necho never\n", 3, "hi\n"},
		{"code wraps", "exit 258\n", 2, ""},
		{"last line without newline", "echo last\nexit 7", 7, "last\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestShell(t, tt.input)
			if code := ts.run(t); code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
			if ts.out.String() != tt.out {
				t.Errorf("output = %q, want %q", ts.out.String(), tt.out)
			}
		})
	}
}

func TestRunContinuesAfterErrors(t *testing.T) {
	ts := newTestShell(t, "exit abc\ncat nope\nls -z\n   \n\t\necho after\n")

	if code := ts.run(t); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if ts.out.String() != "after\n" {
		t.Errorf("output = %q", ts.out.String())
	}

	want := []string{
		"exit: abc: numeric argument required",
		"cat: nope: No such file or directory",
		"ls: unknown shorthand flag: 'z' in -z",
	}
	lines := strings.Split(strings.TrimSuffix(ts.err.String(), "\n"), "\n")
	if len(lines) != len(want) {
		t.Fatalf("errors = %q", ts.err.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("error %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestPrompt(t *testing.T) {
	ts := newTestShell(t, "mkdir sub\ncd sub\ncd /\n", func(o *Options) { o.Quiet = false })
	ts.run(t)

	want := "~ $ ~ $ ~/sub $ / $ \n"
	if ts.out.String() != want {
		t.Errorf("output = %q, want %q", ts.out.String(), want)
	}
}

func TestPromptColor(t *testing.T) {
	ts := newTestShell(t, "", func(o *Options) {
		o.Quiet = false
		o.Color = true
	})
	ts.run(t)

	if !strings.Contains(ts.out.String(), "\x1b[") {
		t.Errorf("Expected ANSI escapes in prompt, got %q", ts.out.String())
	}
}

func TestSyntaxError(t *testing.T) {
	ts := newTestShell(t, "")

	if code := ts.exec(`echo "abc`); code != StatusUsage {
		t.Errorf("status = %d, want %d", code, StatusUsage)
	}
	if got := ts.err.String(); got != "gosh: syntax error: unclosed quote\n" {
		t.Errorf("error = %q", got)
	}
}

func TestBuiltinTable(t *testing.T) {
	table := builtinTable()
	for _, name := range []string{"cd", "pwd", "ls", "cat", "cp", "mv", "rm", "mkdir", "echo", "exit"} {
		if _, ok := table[name]; !ok {
			t.Errorf("Expected %s to be a builtin", name)
		}
	}
	if len(table) != 10 {
		t.Errorf("Expected 10 builtins, got %d", len(table))
	}
	if _, ok := table["external"]; ok {
		t.Error("external must not resolve to a builtin")
	}
	if Mkdir.String() != "mkdir" {
		t.Errorf("Mkdir.String() = %q", Mkdir.String())
	}
}
