package vfs

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/goccy/go-json"

	kerrors "vkernel/errors"
)

// StateFileName is the name of the serialized namespace file.
const StateFileName = "vfs.json"

// Store persists a namespace as a JSON mapping of path -> entry under a
// directory keyed by kernel instance. The format is the serialization
// contract: {path: {path, created_at, updated_at, content}}.
type Store struct {
	// Dir is the directory holding the state file.
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// DefaultStore returns a store under $XDG_STATE_HOME/vkernel/<id>.
func DefaultStore(id string) *Store {
	return &Store{Dir: filepath.Join(xdg.StateHome, "vkernel", id)}
}

func (s *Store) statePath() string {
	return filepath.Join(s.Dir, StateFileName)
}

// Load reads a serialized namespace. Returns ErrNoState when nothing has
// been persisted yet and ErrCorruptState when the file does not decode.
func (s *Store) Load() (map[string]Entry, error) {
	data, err := os.ReadFile(s.statePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kerrors.Op("load", kerrors.ErrNoState).WithResource(s.statePath())
		}
		return nil, kerrors.Classify(kerrors.ErrInternal, "load", err)
	}

	var snapshot map[string]Entry
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, kerrors.Op("load", kerrors.ErrCorruptState).WithResource(s.statePath())
	}
	return snapshot, nil
}

// Save writes the namespace snapshot atomically. Uses temp file + rename to
// prevent a partial state file on crash.
func (s *Store) Save(n *Namespace) error {
	data, err := json.MarshalIndent(n.Snapshot(), "", "  ")
	if err != nil {
		return kerrors.Classify(kerrors.ErrInternal, "save", err)
	}

	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return kerrors.Classify(kerrors.ErrPermission, "save", err)
	}

	// Create temp file in the same directory (same filesystem for the rename)
	tmpFile, err := os.CreateTemp(s.Dir, ".vfs-*.tmp")
	if err != nil {
		return kerrors.Classify(kerrors.ErrInternal, "save", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return kerrors.Classify(kerrors.ErrInternal, "save", err)
	}

	// Sync so the data is on disk before the rename publishes it
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return kerrors.Classify(kerrors.ErrInternal, "save", err)
	}

	if err := tmpFile.Close(); err != nil {
		return kerrors.Classify(kerrors.ErrInternal, "save", err)
	}

	if err := os.Rename(tmpPath, s.statePath()); err != nil {
		return kerrors.Classify(kerrors.ErrInternal, "save", err)
	}
	success = true
	return nil
}
