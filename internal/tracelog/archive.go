package tracelog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// archiveFile appends log lines to a file shared with other processes.
type archiveFile struct {
	mutex sync.Mutex
	path  string
	file  *os.File
	lock  *flock.Flock
}

// openArchive opens path for appending, creating it and its directory.
func openArchive(path string) (*archiveFile, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}

	return &archiveFile{
		path: path,
		file: f,
		lock: flock.New(path + ".lock"),
	}, nil
}

// write appends line while holding the cross-process lock.
func (a *archiveFile) write(line string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.file == nil {
		return fmt.Errorf("archive %s is closed", a.path)
	}

	if err := a.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", a.path, err)
	}
	defer func() { _ = a.lock.Unlock() }()

	if _, err := a.file.WriteString(line); err != nil {
		return fmt.Errorf("failed to write archive %s: %w", a.path, err)
	}
	return nil
}

func (a *archiveFile) close() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	if err != nil {
		return fmt.Errorf("failed to close archive %s: %w", a.path, err)
	}
	return nil
}
