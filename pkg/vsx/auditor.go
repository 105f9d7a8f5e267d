package vsx

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	vsxerrors "github.com/matzehuels/vsxpack/pkg/errors"
	"github.com/matzehuels/vsxpack/pkg/observability"
)

// Auditor runs the full resolve, check, enrich, classify pass for one pack.
type Auditor struct {
	Resolver   *Resolver
	Checker    *Checker
	Enricher   *Enricher
	Classifier *Classifier
	Snapshot   *Snapshot
	Logger     *log.Logger
}

// Audit resolves and classifies id. Identifiers that resolve to an empty
// member list fail with UNSUPPORTED; callers treat that as a non-error exit.
func (a *Auditor) Audit(ctx context.Context, id ID) (*Result, error) {
	logger := orDiscard(a.Logger)
	runID := uuid.NewString()
	logger = logger.With("run", runID[:8])

	var pack *Pack
	err := stage(ctx, observability.StageResolve, id, func() (int, error) {
		var err error
		pack, err = a.Resolver.ResolvePack(ctx, id)
		if err != nil {
			return 0, err
		}
		return len(pack.Members), nil
	})
	if err != nil {
		return nil, err
	}
	if len(pack.Members) == 0 {
		return nil, vsxerrors.New(vsxerrors.ErrCodeUnsupported, "%s is not an extension pack", id)
	}

	var m *Membership
	err = stage(ctx, observability.StageCheck, id, func() (int, error) {
		index, err := a.Snapshot.Load(ctx)
		if err != nil {
			return 0, err
		}
		logger.Debug("loaded open vsx index", "path", a.Snapshot.Path, "extensions", index.Len())
		m = a.Checker.Check(ctx, index, pack)
		return len(m.Absent), nil
	})
	if err != nil {
		return nil, err
	}

	_ = stage(ctx, observability.StageEnrich, id, func() (int, error) {
		todo := m.Absent
		if m.Self != nil {
			todo = append(append([]*Candidate{}, m.Absent...), m.Self)
		}
		m.Warnings = joinWarnings(m.Warnings, a.Enricher.Enrich(ctx, todo))
		return len(todo), nil
	})

	var result *Result
	_ = stage(ctx, observability.StageClassify, id, func() (int, error) {
		result = a.Classifier.Classify(pack, m)
		return len(pack.Members), nil
	})
	result.RunID = runID

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n := result.WarningCount(); n > 0 {
		logger.Debug("audit degraded", "pack", id, "warnings", n)
	}
	return result, nil
}

func stage(ctx context.Context, s observability.Stage, id ID, fn func() (int, error)) error {
	hooks := observability.Audit()
	hooks.OnStageStart(ctx, s, string(id))
	start := time.Now()
	n, err := fn()
	hooks.OnStageComplete(ctx, s, string(id), n, time.Since(start), err)
	return err
}

func joinWarnings(a, b error) error {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return multierror.Append(a, b).ErrorOrNil()
}
