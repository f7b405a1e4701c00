package main

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/firi/sansio-lsp/internal/logger"
	"github.com/firi/sansio-lsp/lsp"
)

// workspaceWatcher recursively watches a workspace directory and, for
// every open document whose file changes on disk, computes the minimal
// edit diff against the last-known buffer and sends textDocument/
// didChange. Adapted from internal/daemon/watcher.go's FileWatcher: the
// recursive walk, build-directory skip list, and 500ms debounce are kept
// verbatim; the clangd-specific "close/reopen + isCppFile filter" payload
// is replaced with a language-agnostic diff-and-send, since a generic LSP
// client has no fixed source language.
type workspaceWatcher struct {
	watcher *fsnotify.Watcher
	root    string
	session *session
	log     logger.Logger

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
	changedFiles  map[string]bool

	buffersMu sync.Mutex
	buffers   map[string]string // uri -> last-known text, for diffing
	versions  map[string]int

	stop chan struct{}
}

func newWorkspaceWatcher(rootURI string, s *session, log logger.Logger) (*workspaceWatcher, error) {
	root, err := uriToPath(rootURI)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ww := &workspaceWatcher{
		watcher:      w,
		root:         root,
		session:      s,
		log:          log,
		changedFiles: make(map[string]bool),
		buffers:      make(map[string]string),
		versions:     make(map[string]int),
		stop:         make(chan struct{}),
	}

	if err := ww.addDirectoryRecursive(root); err != nil {
		w.Close()
		return nil, err
	}

	go ww.watch()
	return ww, nil
}

var skippedDirs = map[string]bool{
	"build": true, "cmake-build-debug": true, "cmake-build-release": true,
	"out": true, "bin": true, "obj": true, "node_modules": true, ".git": true,
}

func (ww *workspaceWatcher) addDirectoryRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") || skippedDirs[base] {
				return filepath.SkipDir
			}
			if err := ww.watcher.Add(path); err != nil {
				ww.log.Info("warning: failed to watch %s: %v", path, err)
			}
		}
		return nil
	})
}

func (ww *workspaceWatcher) watch() {
	for {
		select {
		case event, ok := <-ww.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					ww.addDirectoryRecursive(event.Name)
				} else {
					ww.handleFileChange(event.Name)
				}
			}

		case err, ok := <-ww.watcher.Errors:
			if !ok {
				return
			}
			ww.log.Error("file watcher error: %v", err)

		case <-ww.stop:
			return
		}
	}
}

func (ww *workspaceWatcher) handleFileChange(path string) {
	ww.debounceMu.Lock()
	defer ww.debounceMu.Unlock()

	ww.changedFiles[path] = true

	if ww.debounceTimer != nil {
		ww.debounceTimer.Stop()
	}
	ww.debounceTimer = time.AfterFunc(500*time.Millisecond, ww.flushChanges)
}

func (ww *workspaceWatcher) flushChanges() {
	ww.debounceMu.Lock()
	files := make([]string, 0, len(ww.changedFiles))
	for f := range ww.changedFiles {
		files = append(files, f)
	}
	ww.changedFiles = make(map[string]bool)
	ww.debounceMu.Unlock()

	for _, path := range files {
		ww.sendDiff(path)
	}
}

// sendDiff computes the change events between the last-known buffer for
// path and its current on-disk contents using the client's own edit-diff
// helper, then sends textDocument/didChange with the minimal edits —
// exercising lsp.CalculateChangeEvents the way the spec's §4.6 component
// exists to be used.
func (ww *workspaceWatcher) sendDiff(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		ww.log.Info("skip changed file %s: %v", path, err)
		return
	}
	newText := string(content)
	uri := pathToURI(path)

	ww.buffersMu.Lock()
	oldText, known := ww.buffers[uri]
	ww.buffersMu.Unlock()
	if !known || oldText == newText {
		return
	}

	changes := lsp.CalculateChangeEvents(oldText, newText)
	if len(changes) == 0 {
		return
	}

	ww.buffersMu.Lock()
	ww.buffers[uri] = newText
	ww.versions[uri]++
	version := ww.versions[uri]
	ww.buffersMu.Unlock()

	// sendDiff runs off the debounce timer, a different goroutine than
	// pump's read loop; session.mu serializes both against the client.
	ww.session.mu.Lock()
	ww.session.client.DidChange(lsp.VersionedTextDocumentIdentifier{URI: uri, Version: &version}, changes)
	err = ww.session.flushLocked()
	ww.session.mu.Unlock()
	if err != nil {
		ww.log.Error("flush didChange for %s: %v", uri, err)
	}
}

// trackOpen records the buffer state for a document the session has
// opened, so future on-disk edits can be diffed against it.
func (ww *workspaceWatcher) trackOpen(uri, text string, version int) {
	ww.buffersMu.Lock()
	defer ww.buffersMu.Unlock()
	ww.buffers[uri] = text
	ww.versions[uri] = version
}

// openAll walks the watched workspace and sends textDocument/didOpen for
// every file in it, seeding ww.buffers via trackOpen so that sendDiff's
// !known guard (above) passes on the first on-disk edit. Without this,
// the watcher would debounce and diff changes against documents the
// server was never told were open.
func (ww *workspaceWatcher) openAll() error {
	return filepath.Walk(ww.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") || skippedDirs[base] {
				return filepath.SkipDir
			}
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			ww.log.Info("skip unreadable file %s: %v", path, readErr)
			return nil
		}
		text := string(content)
		uri := pathToURI(path)

		ww.session.client.DidOpen(lsp.TextDocumentItem{
			URI:        uri,
			LanguageID: languageIDForPath(path),
			Version:    1,
			Text:       text,
		})
		ww.trackOpen(uri, text, 1)
		return nil
	})
}

// languageIDForPath guesses a languageId from a file's extension. A
// generic client has no fixed source language, so this is a best-effort
// default rather than an authoritative mapping.
func languageIDForPath(path string) string {
	switch filepath.Ext(path) {
	case ".c":
		return "c"
	case ".h":
		return "c"
	case ".cc", ".cxx", ".hpp", ".hh":
		return "cpp"
	case ".cpp":
		return "cpp"
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".rs":
		return "rust"
	case ".js":
		return "javascript"
	case ".ts":
		return "typescript"
	default:
		return "plaintext"
	}
}

func (ww *workspaceWatcher) Stop() error {
	close(ww.stop)
	ww.debounceMu.Lock()
	if ww.debounceTimer != nil {
		ww.debounceTimer.Stop()
	}
	ww.debounceMu.Unlock()
	return ww.watcher.Close()
}

func uriToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" && u.Scheme != "" {
		return uri, nil
	}
	return u.Path, nil
}

func pathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
