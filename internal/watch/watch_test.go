package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant(t *testing.T) {
	cases := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"markdown write", fsnotify.Event{Name: "scenes/a.md", Op: fsnotify.Write}, true},
		{"template create", fsnotify.Event{Name: "source/index.j2", Op: fsnotify.Create}, true},
		{"yaml remove", fsnotify.Event{Name: "source/site.yaml", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "scenes/a.md", Op: fsnotify.Chmod}, false},
		{"hidden file", fsnotify.Event{Name: "source/.site.yaml.swp", Op: fsnotify.Write}, false},
		{"unwatched extension", fsnotify.Event{Name: "public/index.html", Op: fsnotify.Write}, false},
		{"extensionless (maybe dir)", fsnotify.Event{Name: "content/scenes", Op: fsnotify.Create}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := relevant(tc.ev); got != tc.want {
				t.Errorf("relevant(%v): expected %v, got %v", tc.ev, tc.want, got)
			}
		})
	}
}

func TestRun_TriggersRebuildOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scene.md")
	if err := os.WriteFile(file, []byte("one\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := New([]string{dir}, 20*time.Millisecond, log)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rebuilt := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() error {
			select {
			case rebuilt <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// Give the watcher a beat to arm, then touch the file.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(file, []byte("two\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case <-rebuilt:
	case <-ctx.Done():
		t.Fatal("rebuild callback never fired")
	}

	cancel()
	if err := <-done; err != context.Canceled && err != context.DeadlineExceeded {
		t.Errorf("unexpected run error: %v", err)
	}
}
