package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guish-sh/guish/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestShell() (*Shell, *bytes.Buffer, *bytes.Buffer) {
	s := NewShell(zap.NewNop())
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	s.Stdout = stdout
	s.Stderr = stderr
	s.Launcher.Stdin = strings.NewReader("")
	s.Launcher.Stdout = stdout
	s.Launcher.Stderr = stderr
	return s, stdout, stderr
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{name: "simple", line: "ls -l /tmp", expected: []string{"ls", "-l", "/tmp"}},
		{name: "runs of whitespace", line: "  ls \t -l\t\t/tmp  ", expected: []string{"ls", "-l", "/tmp"}},
		{name: "only whitespace", line: " \t ", expected: nil},
		{name: "empty", line: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.line))
		})
	}
}

func TestPromptReflectsCwdAndHistorySize(t *testing.T) {
	s, _, _ := newTestShell()

	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWd)
	}()
	require.NoError(t, os.Chdir(tmpDir))

	assert.Equal(t, fmt.Sprintf("guish:%s:1> ", tmpDir), s.Prompt())

	s.Dispatch("sh -c true", true)
	s.Dispatch("sh -c true", true)
	assert.Equal(t, fmt.Sprintf("guish:%s:3> ", tmpDir), s.Prompt())
}

func TestDispatchRecordsOnce(t *testing.T) {
	s, _, _ := newTestShell()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWd)
	}()

	s.Dispatch("hist", true)
	s.Dispatch("cd /tmp", true)
	s.Dispatch("sh -c true", true)

	assert.Equal(t, []string{"hist", "cd /tmp", "sh -c true"}, s.History.Entries())
}

func TestDispatchExitSkipsHistory(t *testing.T) {
	s, _, _ := newTestShell()

	exit := s.Dispatch("exit", true)

	assert.True(t, exit)
	assert.Zero(t, s.History.Size())
}

func TestDispatchBlankLine(t *testing.T) {
	s, stdout, stderr := newTestShell()

	exit := s.Dispatch("   \t  ", true)

	assert.False(t, exit)
	assert.Zero(t, s.History.Size())
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestDispatchHist(t *testing.T) {
	s, stdout, _ := newTestShell()

	// Empty history prints zero lines. hist itself is recorded first, so
	// the built-in's own invocation shows up.
	s.Dispatch("hist", true)
	assert.Equal(t, "  1: hist\n", stdout.String())

	stdout.Reset()
	s.Dispatch("hist", true)
	assert.Equal(t, "  1: hist\n  2: hist\n", stdout.String())
}

func TestDispatchCdFailureKeepsShellRunning(t *testing.T) {
	s, _, stderr := newTestShell()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWd)
	}()

	exit := s.Dispatch("cd /definitely/not/a/dir", true)

	assert.False(t, exit)
	assert.Contains(t, stderr.String(), "no such file or directory")

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, originalWd, wd)
}

func TestDispatchExternalExitCodes(t *testing.T) {
	s, stdout, _ := newTestShell()

	// Silent on success.
	s.Dispatch("sh -c true", true)
	assert.Empty(t, stdout.String())

	// The tokenizer has no quoting, so a fixed exit code needs a script.
	script := filepath.Join(t.TempDir(), "exit2.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 2\n"), 0755))

	s.Dispatch(script, true)
	assert.Contains(t, stdout.String(), fmt.Sprintf("[ Program '%s' returned exit code 2 ]", script))
}

func TestDispatchMissingProgram(t *testing.T) {
	s, _, stderr := newTestShell()

	exit := s.Dispatch("doesnotexist123 --flag", true)

	assert.False(t, exit)
	assert.Contains(t, stderr.String(), "The program 'doesnotexist123' seems missing.")
}

func TestRecall(t *testing.T) {
	s, stdout, _ := newTestShell()
	s.Dispatch("sh -c true", true)
	s.Dispatch("hist", true)
	stdout.Reset()

	exit := s.recall("1")

	assert.False(t, exit)
	assert.Contains(t, stdout.String(), "Executing: sh -c true")
	// Recall bypasses the history add entirely.
	assert.Equal(t, []string{"sh -c true", "hist"}, s.History.Entries())
}

func TestRecallMostRecent(t *testing.T) {
	s, stdout, _ := newTestShell()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWd)
	}()

	s.Dispatch("cd /tmp", true)
	stdout.Reset()

	s.recall("")

	assert.Contains(t, stdout.String(), "Executing: cd /tmp")
}

func TestRecallErrors(t *testing.T) {
	tests := []struct {
		name     string
		preload  []string
		arg      string
		expected string
	}{
		{name: "empty history", arg: "", expected: "History command not found."},
		{name: "empty history with index", arg: "1", expected: "History command not found."},
		{name: "non-numeric", preload: []string{"ls"}, arg: "abc", expected: "Invalid number for 'r': abc"},
		{name: "out of range high", preload: []string{"ls"}, arg: "4", expected: "Number for 'r' is out of range: 4"},
		{name: "out of range zero", preload: []string{"ls"}, arg: "0", expected: "Number for 'r' is out of range: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, stdout, stderr := newTestShell()
			for _, line := range tt.preload {
				s.History.Add(line)
			}
			sizeBefore := s.History.Size()

			exit := s.recall(tt.arg)

			assert.False(t, exit)
			assert.Contains(t, stderr.String(), tt.expected)
			assert.NotContains(t, stdout.String(), "Executing:")
			assert.Equal(t, sizeBefore, s.History.Size())
		})
	}
}

func TestRecallExit(t *testing.T) {
	s, _, _ := newTestShell()
	s.History.Add("exit")

	// A recalled exit terminates the loop like a fresh one.
	assert.True(t, s.recall(""))
}

func TestRunLoop(t *testing.T) {
	s, stdout, stderr := newTestShell()

	input := strings.Join([]string{
		"",
		"sh -c true",
		"hist",
		"r abc",
		"exit",
		"sh -c never-reached",
	}, "\n")

	err := s.Run(strings.NewReader(input))
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "  1: sh -c true")
	assert.Contains(t, out, "  2: hist")
	assert.Contains(t, stderr.String(), "Invalid number for 'r': abc")

	// Single shutdown report; nothing after exit ran.
	assert.Equal(t, 1, strings.Count(out, "[Shell exiting... SIGINT (Ctrl+C) was caught"))
	assert.Contains(t, out, "caught 0 times]")
	assert.NotContains(t, out, "never-reached")
	// Piped input gets no prompts.
	assert.NotContains(t, out, "guish:")
}

func TestRunLoopEndOfInput(t *testing.T) {
	s, stdout, _ := newTestShell()

	err := s.Run(strings.NewReader("sh -c true\n"))
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "[Shell exiting... SIGINT (Ctrl+C) was caught 0 times]")
}

func TestHistoryEvictionThroughDispatch(t *testing.T) {
	s, _, _ := newTestShell()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWd)
	}()

	for i := 1; i <= 12; i++ {
		s.Dispatch(fmt.Sprintf("cd %s", t.TempDir()), true)
	}

	entries := s.History.Entries()
	require.Len(t, entries, history.HistorySize)
}
