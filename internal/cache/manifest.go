// Package cache stores fetched dataset files in a data directory together with a
// JSON manifest describing where each file came from.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/hpvdash/internal/utils"
)

const manifestFileName = "manifest.json"

// Entry records one cached file.
type Entry struct {
	ID        string    `json:"id"`
	Dataset   string    `json:"dataset"`
	URL       string    `json:"url"`
	File      string    `json:"file"`
	Size      int64     `json:"size"`
	SHA256    string    `json:"sha256"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Manifest is the on-disk index of a data directory. It is safe for concurrent use.
type Manifest struct {
	Version   int               `json:"version"`
	Entries   map[string]*Entry `json:"entries"`
	UpdatedAt time.Time         `json:"updated_at"`

	mu  sync.Mutex
	dir string
}

// Open loads the manifest of dir, returning an empty one when none exists yet.
func Open(dir string) (*Manifest, error) {
	m := &Manifest{Version: 1, Entries: map[string]*Entry{}, dir: dir}
	b, err := os.ReadFile(filepath.Join(dir, manifestFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Entries == nil {
		m.Entries = map[string]*Entry{}
	}
	m.dir = dir
	return m, nil
}

// Dir returns the data directory.
func (m *Manifest) Dir() string { return m.dir }

// Save writes manifest.json using atomic write.
func (m *Manifest) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dir == "" {
		return errors.New("data directory not set")
	}
	m.UpdatedAt = time.Now().UTC()
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(m.dir, manifestFileName), data)
}

// Path returns the local path of a file name inside the data directory.
func (m *Manifest) Path(file string) string {
	return filepath.Join(m.dir, file)
}

// Put writes data for a dataset and records it. An existing entry keeps its id.
func (m *Manifest) Put(dataset, url, file string, data []byte) (*Entry, error) {
	if err := utils.SafeWriteFile(m.Path(file), data); err != nil {
		return nil, fmt.Errorf("store %s: %w", dataset, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &Entry{
		ID:        uuid.NewString(),
		Dataset:   dataset,
		URL:       url,
		File:      file,
		Size:      int64(len(data)),
		SHA256:    utils.SHA256Hex(data),
		FetchedAt: time.Now().UTC(),
	}
	if old, ok := m.Entries[dataset]; ok && old.ID != "" {
		e.ID = old.ID
	}
	m.Entries[dataset] = e
	return e, nil
}

// Get returns the entry of a dataset.
func (m *Manifest) Get(dataset string) (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Entries[dataset]
	return e, ok
}

// Has reports whether a dataset is recorded and its file is present.
func (m *Manifest) Has(dataset string) bool {
	e, ok := m.Get(dataset)
	return ok && utils.FileExists(m.Path(e.File))
}

// List returns entries sorted by dataset id.
func (m *Manifest) List() []*Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Entry, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dataset < out[j].Dataset })
	return out
}

// Verify recomputes the digest of a cached file and compares it to the manifest.
func (m *Manifest) Verify(dataset string) error {
	e, ok := m.Get(dataset)
	if !ok {
		return fmt.Errorf("dataset %s not cached", dataset)
	}
	data, err := os.ReadFile(m.Path(e.File))
	if err != nil {
		return fmt.Errorf("read %s: %w", e.File, err)
	}
	if got := utils.SHA256Hex(data); got != e.SHA256 {
		return fmt.Errorf("%s: checksum mismatch (manifest %s, file %s)", e.File, short(e.SHA256), short(got))
	}
	return nil
}

func short(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
