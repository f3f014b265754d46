package tsickle

import (
	"os"
	"sort"

	"github.com/cockroachdb/errors"
)

// CompilerHost is the file access surface the pipeline reads sources
// through. The pipeline wraps it with overlays; it never writes through
// it.
type CompilerHost interface {
	FileExists(fileName string) bool
	ReadFile(fileName string) (string, error)
}

// MapHost serves files from memory. The zero value is an empty host;
// construct with a literal or NewMapHost to add files.
type MapHost map[string]string

// NewMapHost copies files into a MapHost.
func NewMapHost(files map[string]string) MapHost {
	m := make(MapHost, len(files))
	for k, v := range files {
		m[k] = v
	}
	return m
}

func (m MapHost) FileExists(fileName string) bool {
	_, ok := m[fileName]
	return ok
}

func (m MapHost) ReadFile(fileName string) (string, error) {
	text, ok := m[fileName]
	if !ok {
		return "", errors.Newf("file not found: %s", fileName)
	}
	return text, nil
}

// FileNames returns the host's file names, sorted.
func (m MapHost) FileNames() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// OSHost reads files from the filesystem.
type OSHost struct{}

func (OSHost) FileExists(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}

func (OSHost) ReadFile(fileName string) (string, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// overlayHost replaces selected file texts while forwarding everything
// else to the wrapped host. This is how rewritten sources are fed back to
// the compiler between passes.
type overlayHost struct {
	base    CompilerHost
	overlay map[string]string
}

// NewOverlayHost wraps base with replacement texts.
func NewOverlayHost(base CompilerHost, overlay map[string]string) CompilerHost {
	return &overlayHost{base: base, overlay: overlay}
}

func (h *overlayHost) FileExists(fileName string) bool {
	if _, ok := h.overlay[fileName]; ok {
		return true
	}
	return h.base.FileExists(fileName)
}

func (h *overlayHost) ReadFile(fileName string) (string, error) {
	if text, ok := h.overlay[fileName]; ok {
		return text, nil
	}
	return h.base.ReadFile(fileName)
}
