// Package filesystem discovers importable documents in a local directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/logger"
)

// Scanner walks and watches one directory tree.
type Scanner struct {
	rootPath string
}

// New creates a scanner rooted at rootPath.
func New(rootPath string) *Scanner {
	return &Scanner{rootPath: ResolvePath(rootPath)}
}

// Root returns the scanned directory.
func (s *Scanner) Root() string {
	return s.rootPath
}

// Scan returns every supported file beneath the root in lexical order.
// Hidden files and directories are skipped.
func (s *Scanner) Scan(ctx context.Context) ([]string, error) {
	info, err := os.Stat(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrValidation, s.rootPath)
	}

	var paths []string
	err = filepath.WalkDir(s.rootPath, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != s.rootPath && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if isSupported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.rootPath, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Watch sends the path of every supported file created or rewritten
// beneath the root until ctx is cancelled. Subdirectories created after
// Watch starts are watched too.
func (s *Scanner) Watch(ctx context.Context, out chan<- string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := s.addTree(watcher, s.rootPath); err != nil {
		return err
	}
	logger.Info("watching %s", s.rootPath)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) && !isHidden(filepath.Base(event.Name)) {
				if err := s.addTree(watcher, event.Name); err != nil {
					logger.Warn("watching %s: %v", event.Name, err)
				}
				continue
			}
			path, ok := s.handleFsEvent(event)
			if !ok {
				continue
			}
			select {
			case out <- path:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// handleFsEvent reports the path to import for an event, if any.
// Only creates and writes of supported, visible regular files qualify.
func (s *Scanner) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(filepath.Base(event.Name)) || !isSupported(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

func (s *Scanner) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func isSupported(path string) bool {
	_, err := domain.FileKindFromFilename(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
