package vsx

import vsxerrors "github.com/matzehuels/vsxpack/pkg/errors"

// PlanOptions controls which candidates are proposed for registration.
type PlanOptions struct {
	// WithLicense registers licensed members even when other members block
	// the pack.
	WithLicense bool
	// Itself also registers the pack when it is missing from Open VSX.
	Itself bool
}

// Plan returns the candidates to register, in bucket order. Nothing is
// proposed unless AllConditionsMet or opts.WithLicense is set. Asking for
// the pack itself when its license is not recognized fails with
// LICENSE_CONFLICT; callers must not write anything in that case.
func (r *Result) Plan(c *Classifier, opts PlanOptions) ([]*Candidate, error) {
	if !r.AllConditionsMet() && !opts.WithLicense {
		return nil, nil
	}

	plan := r.Eligible()
	if opts.Itself && r.Self != nil {
		if !c.Licensed(r.Self) {
			license := r.Self.License
			if license == "" {
				license = "none"
			}
			return nil, vsxerrors.New(vsxerrors.ErrCodeLicenseConflict,
				"%s cannot be registered: repository license %q is not a recognized SPDX identifier", r.Self.ID, license)
		}
		plan = append(plan, r.Self)
	}
	return plan, nil
}
