package templates

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/logging"
	"github.com/bnema/observation-displayer/internal/ports"
	"github.com/fsnotify/fsnotify"
)

// Source serves the current catalog. When backed by a file it can reload it
// in place; readers always see a complete, validated catalog.
type Source struct {
	path    string
	logger  *slog.Logger
	current atomic.Pointer[domain.Catalog]
}

var _ ports.TemplateSource = (*Source)(nil)

// NewSource loads path, or the embedded catalog when path is empty or the file
// does not exist yet. A file that exists but is invalid is an error.
func NewSource(path string, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Source{path: path, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Static serves a fixed catalog.
func Static(catalog domain.Catalog) *Source {
	s := &Source{logger: logging.Discard()}
	s.current.Store(&catalog)
	return s
}

func (s *Source) Path() string {
	return s.path
}

func (s *Source) Catalog() domain.Catalog {
	return *s.current.Load()
}

// Reload re-reads the backing file. On error the previous catalog stays.
func (s *Source) Reload() error {
	catalog, err := s.load()
	if err != nil {
		return err
	}
	s.current.Store(&catalog)
	return nil
}

func (s *Source) load() (domain.Catalog, error) {
	if s.path == "" {
		return Default(), nil
	}

	catalog, err := LoadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("template catalog not found, using defaults", "path", s.path)
		return Default(), nil
	}
	return catalog, err
}

// Watch reloads the catalog whenever its file changes, until ctx is done.
func (s *Source) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create template watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.handleChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("template watcher error", "error", err)
		}
	}
}

func (s *Source) handleChange() {
	if err := s.Reload(); err != nil {
		s.logger.Warn("template catalog reload failed, keeping previous", "path", s.path, "error", err)
		return
	}
	s.logger.Info("template catalog reloaded", "path", s.path, "templates", len(s.Catalog().Templates))
}
