// Package snapshot persists the last known catalogue and order data so a
// restarted instance can serve a first answer before live loading finishes.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"mechanical-burger/internal/model"
)

// Data is the cached part of the replica state.
type Data struct {
	Categories     []model.Category            `json:"categories"`
	MenuItems      []model.MenuItem            `json:"menuItems"`
	Customizations []model.CustomizationOption `json:"customizations"`
	Orders         []model.Order               `json:"orders"`
}

// Envelope wraps Data with the time it was written.
type Envelope struct {
	Data      Data      `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Fresh reports whether the envelope is younger than ttl at now.
func (e Envelope) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.Timestamp) < ttl
}

// FileCache stores one Envelope as a JSON file.
type FileCache struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// NewFileCache creates a cache at path whose entries expire after ttl.
func NewFileCache(path string, ttl time.Duration) *FileCache {
	return &FileCache{path: path, ttl: ttl, now: time.Now}
}

// Load returns the cached envelope. ok is false when there is no entry, the
// entry is unreadable or it has expired; expired and corrupt files are removed.
func (c *FileCache) Load() (Envelope, bool, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Envelope{}, false, nil
		}
		return Envelope{}, false, fmt.Errorf("failed to read snapshot cache: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.Clear()
		return Envelope{}, false, nil
	}

	if !env.Fresh(c.now(), c.ttl) {
		c.Clear()
		return Envelope{}, false, nil
	}

	return env, true, nil
}

// Save writes data stamped with the current time. The file is replaced
// atomically so a crash never leaves half an envelope behind.
func (c *FileCache) Save(data Data) error {
	raw, err := json.Marshal(Envelope{Data: data, Timestamp: c.now()})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Clear removes the cached envelope.
func (c *FileCache) Clear() {
	_ = os.Remove(c.path)
}
