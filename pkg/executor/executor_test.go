package executor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestExecute(t *testing.T) {
	out, err := New().Execute(context.Background(), "sh", "-c", "printf 'hello world'")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "hello world" {
		t.Errorf("Execute() = %q, want %q", out, "hello world")
	}
}

func TestExecuteFailure(t *testing.T) {
	_, err := New().Execute(context.Background(), "sh", "-c", "echo broken >&2; exit 3")

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Execute() error = %v, want *CommandError", err)
	}
	if cmdErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", cmdErr.ExitCode)
	}
	if cmdErr.Stderr != "broken" {
		t.Errorf("Stderr = %q, want %q", cmdErr.Stderr, "broken")
	}
	if !strings.Contains(err.Error(), "exit code 3") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New().Execute(ctx, "sleep", "5")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Execute() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestTail(t *testing.T) {
	if got := tail("abcdef", 3); got != "...def" {
		t.Errorf("tail() = %q, want %q", got, "...def")
	}
	if got := tail("ab", 3); got != "ab" {
		t.Errorf("tail() = %q, want %q", got, "ab")
	}
	// the cut would land inside "é"
	if got := tail("aé€", 4); got != "...€" || !utf8.ValidString(got) {
		t.Errorf("tail() = %q, want %q", got, "...€")
	}
}
