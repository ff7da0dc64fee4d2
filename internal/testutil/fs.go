package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFiles creates each named file under dir with placeholder content.
func WriteFiles(t testing.TB, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("video:"+name), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}
