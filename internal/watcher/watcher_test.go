package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

func TestWatcherHandlesMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 10)
	handler := func(ctx context.Context, path string) error {
		handled <- filepath.Base(path)
		return errors.New("handler errors are only logged")
	}
	filter := func(path string) bool { return strings.HasSuffix(path, ".txt") }

	w, err := New(dir, handler, logger.Nop(), Options{SettleDelay: time.Millisecond, Filter: filter})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	for _, name := range []string{"skip.mp4", "one.txt", "two.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"one.txt", "two.txt"}
	for _, name := range want {
		select {
		case got := <-handled:
			if got != name {
				t.Errorf("handled %s, want %s", got, name)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", name)
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}
}

func TestNewCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "incoming")

	w, err := New(dir, func(context.Context, string) error { return nil }, logger.Nop(), Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("watch dir not created: %v", err)
	}
}
