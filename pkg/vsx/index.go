package vsx

import (
	"context"
	"os"
	"path/filepath"

	vsxerrors "github.com/matzehuels/vsxpack/pkg/errors"
	"github.com/matzehuels/vsxpack/pkg/integrations/openvsx"
)

// Index is the set of extensions known to be published on Open VSX.
// It is read-only once built.
type Index struct {
	ids map[ID]struct{}
}

// NewIndex builds an index from raw identifiers, matching case-insensitively.
func NewIndex(ids []string) *Index {
	ix := &Index{ids: make(map[ID]struct{}, len(ids))}
	for _, id := range ids {
		ix.ids[Canon(id)] = struct{}{}
	}
	return ix
}

// Contains reports whether id is in the index. A nil index is empty.
func (ix *Index) Contains(id ID) bool {
	if ix == nil {
		return false
	}
	_, ok := ix.ids[id]
	return ok
}

// Len returns the number of indexed extensions.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.ids)
}

// SnapshotSource downloads the registry listing.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context, url string) ([]byte, []string, error)
}

// Snapshot manages the on-disk copy of the Open VSX listing. The file is
// created on first use and only replaced by an explicit [Snapshot.Refresh].
type Snapshot struct {
	Path   string
	URL    string
	Source SnapshotSource
	// Parse decodes the file; nil means the publish-extensions format.
	Parse func([]byte) ([]string, error)
}

// Load reads the snapshot file, downloading it first if it does not exist.
func (s *Snapshot) Load(ctx context.Context) (*Index, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return s.Refresh(ctx)
	}
	if err != nil {
		return nil, vsxerrors.Wrap(vsxerrors.ErrCodeFileSystem, err, "read snapshot %s", s.Path)
	}

	parse := s.Parse
	if parse == nil {
		parse = openvsx.ParseSnapshot
	}
	ids, err := parse(data)
	if err != nil {
		return nil, vsxerrors.Wrap(vsxerrors.ErrCodeFileSystem, err, "snapshot %s is corrupt; run 'vsxpack snapshot refresh'", s.Path)
	}
	return NewIndex(ids), nil
}

// Refresh downloads the listing and atomically replaces the snapshot file.
func (s *Snapshot) Refresh(ctx context.Context) (*Index, error) {
	raw, ids, err := s.Source.FetchSnapshot(ctx, s.URL)
	if err != nil {
		return nil, vsxerrors.Wrap(vsxerrors.ErrCodeNetwork, err, "download open vsx snapshot")
	}
	if err := writeFileAtomic(s.Path, raw); err != nil {
		return nil, vsxerrors.Wrap(vsxerrors.ErrCodeFileSystem, err, "write snapshot %s", s.Path)
	}
	return NewIndex(ids), nil
}

// Exists reports whether the snapshot file is present.
func (s *Snapshot) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
