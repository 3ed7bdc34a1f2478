package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExpandHome(t *testing.T) {
	// Set a deterministic HOME for the duration of this test so we never skip.
	origHome, hadHome := os.LookupEnv("HOME")
	origUserProfile, hadUserProfile := os.LookupEnv("USERPROFILE")
	t.Cleanup(func() {
		if hadHome {
			_ = os.Setenv("HOME", origHome)
		} else {
			_ = os.Unsetenv("HOME")
		}
		if hadUserProfile {
			_ = os.Setenv("USERPROFILE", origUserProfile)
		} else {
			_ = os.Unsetenv("USERPROFILE")
		}
	})

	home := t.TempDir()
	// Configure both env vars for cross-platform behavior of os.UserHomeDir.
	_ = os.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		_ = os.Setenv("USERPROFILE", home)
	}
	// raw path unaffected
	if got, err := ExpandHome("/tmp"); err != nil || got != "/tmp" {
		t.Fatalf("got %q err=%v", got, err)
	}
	// empty path
	if got, err := ExpandHome(""); err != nil || got != "" {
		t.Fatalf("got %q err=%v", got, err)
	}
	// ~ expansion
	p, err := ExpandHome("~")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p != home {
		t.Fatalf("expected %q, got %q", home, p)
	}
	// ~/subdir
	sub := "test-sub"
	exp, err := ExpandHome("~/" + sub)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if runtime.GOOS == "windows" {
		if filepath.Base(exp) != sub {
			t.Fatalf("unexpected expanded path: %q", exp)
		}
	} else {
		expected := filepath.Join(home, sub)
		if exp != expected {
			t.Fatalf("expected %q, got %q", expected, exp)
		}
	}
}

func TestReadOptional(t *testing.T) {
	dir := t.TempDir()
	got, err := ReadOptional(filepath.Join(dir, "missing.log"))
	if err != nil || got != "" {
		t.Fatalf("missing file: got %q err=%v", got, err)
	}
	p := filepath.Join(dir, "app.log")
	if err := os.WriteFile(p, []byte("boom"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := ReadOptional(p); err != nil || got != "boom" {
		t.Fatalf("got %q err=%v", got, err)
	}
}

func TestWriteFileAndEnsureDirs(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	if err := EnsureDirs(root, "src/adapters", "prisma", "logs"); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	for _, d := range []string{"src/adapters", "prisma", "logs"} {
		if fi, err := os.Stat(filepath.Join(root, d)); err != nil || !fi.IsDir() {
			t.Fatalf("expected %s to exist", d)
		}
	}
	// idempotent
	if err := EnsureDirs(root, "prisma"); err != nil {
		t.Fatalf("EnsureDirs again: %v", err)
	}
	p := filepath.Join(root, "pages", "deep", ".env")
	if err := WriteFile(p, "PORT=3001\n"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "PORT=3001\n" {
		t.Fatalf("got %q err=%v", b, err)
	}
}
