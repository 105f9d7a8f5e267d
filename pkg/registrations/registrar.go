package registrations

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"

	vsxerrors "github.com/matzehuels/vsxpack/pkg/errors"
	"github.com/matzehuels/vsxpack/pkg/git"
	"github.com/matzehuels/vsxpack/pkg/integrations/marketplace"
)

// Request asks for an extension to be registered.
type Request struct {
	ID         string
	Repository string
}

// Registrar appends extensions to a registrations file.
type Registrar struct {
	Path string
	Git  git.Cloner

	// OnAdded runs once per entry after the file has been written.
	OnAdded func(Entry)

	// TempDir is where clones are made; empty means os.TempDir.
	TempDir string
	Logger  *log.Logger
}

// Register resolves and appends every request whose id is not yet in the
// file. Entries whose clone fails are skipped and reported in warnings;
// err is only set for file system failures, in which case nothing is
// written.
func (r *Registrar) Register(ctx context.Context, reqs []Request) (added []Entry, warnings error, err error) {
	f, err := Load(r.Path)
	if err != nil {
		return nil, nil, vsxerrors.Wrap(vsxerrors.ErrCodeFileSystem, err, "read registrations file %s", r.Path)
	}

	var merr *multierror.Error
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if f.Has(req.ID) {
			r.logger().Debug("already registered", "id", req.ID)
			continue
		}

		entry, err := r.resolve(ctx, req)
		if err != nil {
			r.logger().Debug("registration skipped", "id", req.ID, "err", err)
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", req.ID, err))
			continue
		}
		if f.Add(entry) {
			added = append(added, entry)
		}
	}

	if len(added) == 0 {
		return nil, merr.ErrorOrNil(), nil
	}
	if err := Save(r.Path, f); err != nil {
		return nil, merr.ErrorOrNil(), vsxerrors.Wrap(vsxerrors.ErrCodeFileSystem, err, "write registrations file %s", r.Path)
	}

	if r.OnAdded != nil {
		for _, e := range added {
			r.OnAdded(e)
		}
	}
	return added, merr.ErrorOrNil(), nil
}

var errNoRepository = errors.New("no repository to clone")

func (r *Registrar) resolve(ctx context.Context, req Request) (Entry, error) {
	if req.Repository == "" {
		return Entry{}, errNoRepository
	}

	dir, err := os.MkdirTemp(r.TempDir, "vsxpack-clone-*")
	if err != nil {
		return Entry{}, err
	}
	defer os.RemoveAll(dir)

	dest := filepath.Join(dir, "repo")
	if err := r.Git.Clone(ctx, req.Repository, dest); err != nil {
		return Entry{}, err
	}

	data, err := os.ReadFile(filepath.Join(dest, "package.json"))
	if err != nil {
		return Entry{}, fmt.Errorf("read package.json: %w", err)
	}
	manifest, err := marketplace.ParseManifest(data)
	if err != nil {
		return Entry{}, fmt.Errorf("parse package.json: %w", err)
	}

	entry := Entry{ID: req.ID, Repository: req.Repository, Version: manifest.Version}
	// Keep the publisher's own casing when the manifest agrees with the id.
	if declared := manifest.Publisher + "." + manifest.Name; strings.EqualFold(declared, req.ID) {
		entry.ID = declared
	} else {
		r.logger().Debug("package.json names a different extension", "id", req.ID, "declared", declared)
	}
	return entry, nil
}

func (r *Registrar) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
