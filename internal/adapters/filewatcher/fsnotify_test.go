package filewatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchEmitsEventForDocument(t *testing.T) {
	dir := t.TempDir()

	w, err := NewFSNotifyWatcher(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := w.Watch(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "lecture1.pdf"), []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-events:
		if event.Bucket != dir {
			t.Errorf("expected bucket %q, got %q", dir, event.Bucket)
		}
		if event.Name != "lecture1.pdf" {
			t.Errorf("expected name lecture1.pdf, got %q", event.Name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatchIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()

	w, err := NewFSNotifyWatcher(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := w.Watch(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-events:
		t.Errorf("unexpected event for %q", event.Name)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchClosesOnContextCancel(t *testing.T) {
	dir := t.TempDir()

	w, err := NewFSNotifyWatcher(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Watch(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}

	cancel()

	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected channel closed, got event")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestIsWatchedExtension(t *testing.T) {
	w, err := NewFSNotifyWatcher([]string{".pdf", ".docx"})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.isWatchedExtension("/uploads/a.pdf") {
		t.Error("expected .pdf watched")
	}
	if !w.isWatchedExtension("b.docx") {
		t.Error("expected .docx watched")
	}
	if w.isWatchedExtension("c.txt") {
		t.Error("expected .txt ignored")
	}
}
