package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// dirDetector counts the files in dir — a trivial but honest version token.
func dirDetector(dir string) ChangeDetector {
	return func(_ context.Context) (string, error) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("n=%d", len(entries)), nil
	}
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), dirDetector("x"), Options{})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestOnChange_FiresOnRealChange(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, dirDetector(dir), Options{
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan [2]string, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.OnChange(ctx, func(old, cur string) error {
			fired <- [2]string{old, cur}
			return nil
		})
	}()

	// Give the watcher a moment to seed its initial version.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "py.md"), []byte("# Role\nPython expert.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-fired:
		if change[0] != "n=0" || change[1] != "n=1" {
			t.Fatalf("change: got %v", change)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not fire")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange did not return after cancel")
	}
}

func TestOnChange_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, dirDetector(dir), Options{
		Debounce: 200 * time.Millisecond,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fires atomic.Int64
	go func() {
		_ = w.OnChange(ctx, func(_, _ string) error {
			fires.Add(1)
			return nil
		})
	}()
	time.Sleep(100 * time.Millisecond)

	// A burst of writes inside one debounce window.
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, fmt.Sprintf("e%d.txt", i))
		if err := os.WriteFile(name, []byte("ROLE: x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(time.Second)
	if got := fires.Load(); got != 1 {
		t.Fatalf("fires: got %d, want 1", got)
	}
	if w.Stats().Events < 5 {
		t.Fatalf("events: got %d, want >= 5", w.Stats().Events)
	}
}

func TestOnChange_NoFireWithoutFingerprintChange(t *testing.T) {
	dir := t.TempDir()
	// Constant detector: events arrive but the version never moves.
	constant := func(_ context.Context) (string, error) { return "same", nil }

	w, err := New(dir, constant, Options{
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fires atomic.Int64
	go func() {
		_ = w.OnChange(ctx, func(_, _ string) error {
			fires.Add(1)
			return nil
		})
	}()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "touched.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(500 * time.Millisecond)
	if got := fires.Load(); got != 0 {
		t.Fatalf("fires: got %d, want 0", got)
	}
	if w.Stats().Checks == 0 {
		t.Fatal("expected at least one detector check")
	}
}
