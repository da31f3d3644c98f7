package tokenstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldops", "session.json")
	f := NewFile(path)

	if err := f.Save("tok-1"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	token, err := f.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("token = %q, want %q", token, "tok-1")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
}

func TestFile_LoadMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing.json"))

	token, err := f.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty for missing record", token)
	}
}

func TestFile_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	f := NewFile(path)
	token, err := f.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if token != "" {
		t.Errorf("corrupt record should read as absent, got %q", token)
	}
}

func TestFile_SaveOverwrites(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "session.json"))

	if err := f.Save("tok-old"); err != nil {
		t.Fatal(err)
	}
	if err := f.Save("tok-new"); err != nil {
		t.Fatal(err)
	}

	token, _ := f.Load()
	if token != "tok-new" {
		t.Errorf("token = %q, want %q", token, "tok-new")
	}
}

func TestFile_Clear(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "session.json"))

	if err := f.Save("tok-1"); err != nil {
		t.Fatal(err)
	}
	if err := f.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	token, _ := f.Load()
	if token != "" {
		t.Errorf("token = %q, want empty after clear", token)
	}

	// Clearing an absent record is not an error.
	if err := f.Clear(); err != nil {
		t.Errorf("second Clear returned error: %v", err)
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()

	token, err := m.Load()
	if err != nil || token != "" {
		t.Fatalf("empty store: token=%q err=%v", token, err)
	}

	if err := m.Save("tok-1"); err != nil {
		t.Fatal(err)
	}
	token, _ = m.Load()
	if token != "tok-1" {
		t.Errorf("token = %q, want %q", token, "tok-1")
	}

	if err := m.Clear(); err != nil {
		t.Fatal(err)
	}
	token, _ = m.Load()
	if token != "" {
		t.Errorf("token = %q, want empty after clear", token)
	}
}
