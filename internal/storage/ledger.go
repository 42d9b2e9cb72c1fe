package storage

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"bondi/internal/logger"
	"bondi/internal/models"
)

// Ledger wraps the on-disk JSON document holding all users and pods.
// Mutating operations edit the in-memory document and call Save before
// returning, so the file always reflects the last completed operation.
type Ledger struct {
	path string
	doc  *models.Document
	mu   sync.Mutex
	log  logger.Logger
}

// Open loads the document at path, starting from an empty one when the file
// does not exist yet. A first run never fails.
func Open(path string, log logger.Logger) (*Ledger, error) {
	doc, err := load(path)
	if err != nil {
		log.Errorf("storage: failed to load ledger %s: %v", path, err)
		return nil, err
	}
	return &Ledger{path: path, doc: doc, log: log}, nil
}

func load(path string) (*models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewDocument(), nil
		}
		return nil, err
	}
	defer f.Close()

	doc := models.NewDocument()
	if err := json.NewDecoder(f).Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return models.NewDocument(), nil
		}
		return nil, err
	}
	if doc.Users == nil {
		doc.Users = make(map[string]*models.User)
	}
	if doc.Pods == nil {
		doc.Pods = []*models.Pod{}
	}
	// The map key is authoritative for the username.
	for name, u := range doc.Users {
		u.Username = name
	}
	return doc, nil
}

// Document returns the in-memory document. The single-session model means
// callers mutate it directly and then call Save.
func (l *Ledger) Document() *models.Document {
	return l.doc
}

// Path returns the location of the ledger file.
func (l *Ledger) Path() string {
	return l.path
}

// Save rewrites the whole document atomically. A reader never observes a
// partial file: the document is written to a temp file, synced, and renamed
// over the target.
func (l *Ledger) Save() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := atomicWriteJSON(l.path, l.doc); err != nil {
		l.log.Errorf("storage: failed to save ledger %s: %v", l.path, err)
		return err
	}
	return nil
}

func atomicWriteJSON(path string, data interface{}) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}
