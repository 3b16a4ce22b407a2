package graphjson

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"communitygraph/internal/logger"
)

// Writer outputs a serialized graph document to a local file.
// The target is replaced atomically so a failed write leaves no partial file.
type Writer struct {
	path string
	mu   sync.Mutex
}

// NewWriter creates a file writer for graph documents.
func NewWriter(path string) (*Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("output file path is empty")
	}
	logger.Infof("Graph JSON writer initialized: %s", path)
	return &Writer{path: path}, nil
}

// WriteDocument writes data to a temp file next to the target and renames it into place.
func (w *Writer) WriteDocument(_ context.Context, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp output file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write graph document: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set output file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp output file: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("failed to move output file into place: %w", err)
	}

	logger.Debugf("Graph document written: path=%s bytes=%d", w.path, len(data))
	return nil
}

// Close releases writer resources.
func (w *Writer) Close() error {
	return nil
}
