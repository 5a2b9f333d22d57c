package server

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"talentflow/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// CertWatcher watches certificate files for changes and triggers reloads
type CertWatcher struct {
	mu sync.RWMutex

	certFile string
	keyFile  string
	caFile   string

	lastModTime map[string]time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	reloadCallback func()
	logger         *errors.Logger

	running bool
}

// NewCertWatcher creates a new certificate file watcher. An empty path is
// not watched.
func NewCertWatcher(certFile, keyFile, caFile string, debounceDelay time.Duration, reloadCallback func(), logger *errors.Logger) *CertWatcher {
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}

	return &CertWatcher{
		certFile:       certFile,
		keyFile:        keyFile,
		caFile:         caFile,
		lastModTime:    make(map[string]time.Time),
		debounceDelay:  debounceDelay,
		stopChan:       make(chan struct{}),
		reloadChan:     make(chan struct{}, 1),
		reloadCallback: reloadCallback,
		logger:         errors.OrNop(logger),
	}
}

// Start begins watching certificate files for changes
func (cw *CertWatcher) Start() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.running {
		return fmt.Errorf("certificate watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	cw.fsWatcher = watcher
	cw.updateModTimes()

	files := cw.GetWatchedFiles()
	for _, file := range files {
		if err := cw.addFileToWatcher(file); err != nil {
			cw.logger.Warn("Failed to watch certificate file", "file", file, "error", err)
		}
	}

	cw.running = true
	go cw.watchLoop()

	cw.logger.Info("Certificate file watcher started",
		"files", files,
		"debounce_delay", cw.debounceDelay)
	return nil
}

// Stop stops the certificate file watcher
func (cw *CertWatcher) Stop() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.running {
		return nil
	}
	cw.running = false

	close(cw.stopChan)
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}

	if err := cw.fsWatcher.Close(); err != nil {
		cw.logger.LogError(err, "Failed to close file system watcher")
		return err
	}

	cw.logger.Info("Certificate file watcher stopped")
	return nil
}

// addFileToWatcher watches the file's directory so that atomic replacements
// (write to temp, rename over) are seen as well as in-place writes.
func (cw *CertWatcher) addFileToWatcher(file string) error {
	dir := filepath.Dir(file)
	if err := cw.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	if err := cw.fsWatcher.Add(file); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to watch file %s: %w", file, err)
	}
	return nil
}

func (cw *CertWatcher) updateModTimes() {
	for _, file := range cw.GetWatchedFiles() {
		if stat, err := os.Stat(file); err == nil {
			cw.lastModTime[file] = stat.ModTime()
		}
	}
}

// hasFileChanged checks if a file has been modified since last check
func (cw *CertWatcher) hasFileChanged(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		if _, exists := cw.lastModTime[file]; exists && os.IsNotExist(err) {
			delete(cw.lastModTime, file)
			return true
		}
		return false
	}

	lastMod, exists := cw.lastModTime[file]
	if !exists || !stat.ModTime().Equal(lastMod) {
		cw.lastModTime[file] = stat.ModTime()
		return true
	}
	return false
}

func (cw *CertWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-cw.fsWatcher.Events:
			if !ok {
				return
			}
			if cw.shouldProcessEvent(event) {
				cw.scheduleReload()
			}

		case err, ok := <-cw.fsWatcher.Errors:
			if !ok {
				return
			}
			cw.logger.LogError(err, "File watcher error")

		case <-cw.reloadChan:
			if cw.hasAnyFileChanged() {
				cw.logger.Info("Certificate files changed, triggering reload")
				cw.reloadCallback()
			}

		case <-cw.stopChan:
			return
		}
	}
}

// shouldProcessEvent determines if a file system event should trigger a reload check
func (cw *CertWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	watched := slices.ContainsFunc(cw.GetWatchedFiles(), func(file string) bool {
		return filepath.Clean(event.Name) == filepath.Clean(file)
	})
	return watched && event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (cw *CertWatcher) hasAnyFileChanged() bool {
	changed := false
	for _, file := range cw.GetWatchedFiles() {
		// no short circuit: every mod time must be refreshed
		if cw.hasFileChanged(file) {
			changed = true
		}
	}
	return changed
}

// scheduleReload schedules a debounced reload
func (cw *CertWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}

	cw.debounceTimer = time.AfterFunc(cw.debounceDelay, func() {
		select {
		case cw.reloadChan <- struct{}{}:
		default:
		}
	})
}

// IsRunning returns whether the watcher is currently running
func (cw *CertWatcher) IsRunning() bool {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return cw.running
}

// GetWatchedFiles returns the list of files being watched
func (cw *CertWatcher) GetWatchedFiles() []string {
	var files []string
	for _, file := range []string{cw.certFile, cw.keyFile, cw.caFile} {
		if file != "" {
			files = append(files, file)
		}
	}
	return files
}
