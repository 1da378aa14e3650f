// Package filesystem implements the asset source over a local directory
// tree. The directory layout carries the campaign structure: client and
// campaign names come from path segments relative to the collection root.
package filesystem

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
	"github.com/brightline-labs/campaigniq/internal/core/ports/driven"
	"github.com/brightline-labs/campaigniq/internal/logger"
)

var _ driven.AssetSource = (*Source)(nil)

// maxTextExtractionBytes caps how much of a textual file is read as
// extracted text. Larger files are truncated, not skipped.
const maxTextExtractionBytes = 256 * 1024

// mimeByExtension maps known creative-asset extensions to MIME types.
// Unknown extensions fall back to application/octet-stream, which classifies
// as FileKindOther downstream.
var mimeByExtension = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",

	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".psd":  "image/vnd.adobe.photoshop",

	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".key":  "application/vnd.apple.keynote",

	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".html": "text/html",
	".srt":  "text/plain",
	".vtt":  "text/vtt",
}

// textExtensions are the extensions whose contents are read as extracted
// text. Binary formats yield empty text; analysis then degrades to
// filename-only heuristics.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".html": true,
	".srt":  true,
	".vtt":  true,
}

// Source lists and watches campaign assets under a local directory.
type Source struct {
	mu       sync.Mutex
	watchers []*fsnotify.Watcher
}

// New creates a filesystem asset source.
func New() *Source {
	return &Source{}
}

// ListAssets walks the collection directory and returns one RawAsset per
// regular file, in deterministic path order. Hidden files and directories
// are skipped.
func (s *Source) ListAssets(ctx context.Context, collectionRef string) ([]domain.RawAsset, error) {
	root, err := filepath.Abs(collectionRef)
	if err != nil {
		return nil, fmt.Errorf("resolve collection path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: stat collection %s: %w", domain.ErrInvalidInput, collectionRef, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: collection %s is not a directory", domain.ErrInvalidInput, collectionRef)
	}

	var assets []domain.RawAsset
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are skipped, not fatal.
			logger.Warn("Skipping %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		fi, err := d.Info()
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			return nil
		}

		asset := domain.RawAsset{
			ID:         assetID(rel),
			Filename:   d.Name(),
			MIMEType:   mimeTypeFor(d.Name()),
			Size:       fi.Size(),
			CreatedAt:  fi.ModTime().UTC(),
			ModifiedAt: fi.ModTime().UTC(),
			Path:       rel,
			Text:       extractText(path),
		}
		assets = append(assets, asset)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk collection: %w", err)
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].Path < assets[j].Path })

	return assets, nil
}

// Watch emits an AssetEvent per filesystem change under the collection,
// including directories created after watching started. The channel closes
// when ctx is cancelled.
func (s *Source) Watch(ctx context.Context, collectionRef string) (<-chan driven.AssetEvent, error) {
	root, err := filepath.Abs(collectionRef)
	if err != nil {
		return nil, fmt.Errorf("resolve collection path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// fsnotify is not recursive; register every existing directory.
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("register watch paths: %w", err)
	}

	s.mu.Lock()
	s.watchers = append(s.watchers, watcher)
	s.mu.Unlock()

	events := make(chan driven.AssetEvent)
	go func() {
		defer close(events)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if ev.Op.Has(fsnotify.Create) {
						if err := watcher.Add(ev.Name); err != nil {
							logger.Warn("Cannot watch new directory %s: %v", ev.Name, err)
						}
					}
					continue
				}

				rel, err := filepath.Rel(root, ev.Name)
				if err != nil || strings.HasPrefix(filepath.Base(rel), ".") {
					continue
				}

				op, relevant := mapOp(ev.Op)
				if !relevant {
					continue
				}
				select {
				case events <- driven.AssetEvent{Op: op, Path: filepath.ToSlash(rel)}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watch error: %v", err)
			}
		}
	}()

	return events, nil
}

// Close releases every watcher started by Watch. Watchers already stopped
// by context cancellation close again as a no-op.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, w := range s.watchers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.watchers = nil
	return firstErr
}

func mapOp(op fsnotify.Op) (driven.AssetEventOp, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return driven.AssetCreated, true
	case op.Has(fsnotify.Write):
		return driven.AssetUpdated, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return driven.AssetRemoved, true
	default:
		return 0, false
	}
}

// assetID derives a stable identifier from the collection-relative path, so
// reprocessing the same file updates rather than duplicates.
func assetID(relPath string) string {
	sum := sha1.Sum([]byte(relPath))
	return hex.EncodeToString(sum[:])
}

func mimeTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mime, ok := mimeByExtension[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// extractText reads the contents of textual files, capped at
// maxTextExtractionBytes. Anything else, including read failures, yields
// empty text.
func extractText(path string) string {
	if !textExtensions[strings.ToLower(filepath.Ext(path))] {
		return ""
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Debug("Text extraction failed for %s: %v", path, err)
		return ""
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxTextExtractionBytes))
	if err != nil {
		logger.Debug("Text extraction failed for %s: %v", path, err)
		return ""
	}
	return string(data)
}
