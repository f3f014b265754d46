package sink

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFilesystemSink_WriteFile(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)

	if err := s.WriteFile("out/nested/a.js", []byte("goog.module('a');\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "out", "nested", "a.js"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "goog.module('a');\n" {
		t.Errorf("content = %q", data)
	}

	// overwrite in place
	if err := s.WriteFile("out/nested/a.js", []byte("updated")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(root, "out", "nested", "a.js"))
	if string(data) != "updated" {
		t.Errorf("content after overwrite = %q", data)
	}
}

func TestFilesystemSink_RejectsEscapes(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())
	for _, path := range []string{"", "../evil.js", "/abs.js", "a/../../evil.js"} {
		if err := s.WriteFile(path, []byte("x")); err == nil {
			t.Errorf("WriteFile(%q) should be rejected", path)
		}
	}
}
