package credentials

import (
	"os"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	creds, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if creds.Cookie != "" || creds.BackendURL != "" {
		t.Errorf("expected empty credentials, got %+v", creds)
	}
}

func TestSaveLoadClear(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	saved := &Credentials{BackendURL: "http://localhost:8080", Cookie: "JSESSIONID=abc123"}
	if err := Save(saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	path, err := Path()
	if err != nil {
		t.Fatalf("path failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("session file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Cookie != saved.Cookie || loaded.BackendURL != saved.BackendURL {
		t.Errorf("loaded %+v, want %+v", loaded, saved)
	}

	if err := Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("session file still exists after clear")
	}

	// Clearing again is not an error
	if err := Clear(); err != nil {
		t.Errorf("second clear failed: %v", err)
	}
}
