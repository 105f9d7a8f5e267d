package cli

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	vsxerrors "github.com/matzehuels/vsxpack/pkg/errors"
	"github.com/matzehuels/vsxpack/pkg/observability"
	"github.com/matzehuels/vsxpack/pkg/registrations"
	"github.com/matzehuels/vsxpack/pkg/vsx"
)

type addOptions struct {
	withLicense bool
	itself      bool
	noCache     bool
}

// addCommand creates the add command: audit a pack and register what may be published.
func (c *CLI) addCommand() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add <extension-name> [extensions-file]",
		Short: "Audit an extension pack and register its missing members",
		Long: `Audit an extension pack against Open VSX and append the missing, openly
licensed members to a registrations file (default extensions.json).

Nothing is registered unless every missing member is openly licensed and none
is deprecated or ineligible. --add-extensions-with-license registers the
licensed members regardless. --itself also registers the pack; this fails
when the pack's own repository has no recognized license.`,
		Example: `  vsxpack add vscjava.vscode-java-pack
  vsxpack add vscjava.vscode-java-pack ../publish-extensions/extensions.json --add-extensions-with-license`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := defaultRegistrations
			if len(args) == 2 {
				file = args[1]
			}
			return c.runAdd(cmd.Context(), args[0], file, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.withLicense, "add-extensions-with-license", false, "register licensed members even if others block the pack")
	cmd.Flags().BoolVar(&opts.itself, "itself", false, "also register the pack itself")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the HTTP response cache")

	return cmd
}

func (c *CLI) runAdd(ctx context.Context, name, file string, opts addOptions) error {
	if strings.TrimSpace(file) == "" {
		return vsxerrors.New(vsxerrors.ErrCodeInvalidInput, "registrations file path cannot be empty")
	}
	file = filepath.Clean(file)

	result, s, err := c.audit(ctx, name, opts.noCache)
	if err != nil {
		if vsxerrors.Is(err, vsxerrors.ErrCodeUnsupported) {
			printInfo(c.Out, "%s", vsxerrors.UserMessage(err))
			return nil
		}
		return err
	}
	defer s.Close()

	renderReport(c.Out, result)

	plan, err := result.Plan(s.classifier, vsx.PlanOptions{WithLicense: opts.withLicense, Itself: opts.itself})
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		if !result.AllConditionsMet() && len(result.Licensed) > 0 {
			printNextStep(c.Out, "Register the licensed members anyway", "vsxpack add "+name+" --add-extensions-with-license")
		} else {
			printInfo(c.Out, "Nothing to register")
		}
		return nil
	}

	reqs := make([]registrations.Request, len(plan))
	for i, cand := range plan {
		reqs[i] = registrations.Request{ID: string(cand.ID), Repository: cand.RepositoryURL}
	}

	registrar := &registrations.Registrar{
		Path:    file,
		Git:     c.git(),
		Logger:  c.Logger,
		OnAdded: func(e registrations.Entry) { printSuccess(c.Out, "Added %s", StyleHighlight.Render(e.ID)) },
	}

	hooks := observability.Audit()
	hooks.OnStageStart(ctx, observability.StageRegister, string(result.Pack.ID))
	start := time.Now()
	added, warnings, err := registrar.Register(ctx, reqs)
	hooks.OnStageComplete(ctx, observability.StageRegister, string(result.Pack.ID), len(added), time.Since(start), err)
	if err != nil {
		return err
	}

	if warnings != nil {
		printWarning(c.Out, "Some extensions could not be registered")
		c.Logger.Debug("registration warnings", "err", warnings)
	}
	if len(added) == 0 {
		printInfo(c.Out, "Nothing new to register")
		return nil
	}
	printFile(c.Out, file)
	return nil
}

// audit resolves name and runs the full audit. The returned services must
// be closed by the caller when err is nil.
func (c *CLI) audit(ctx context.Context, name string, noCache bool) (*vsx.Result, *services, error) {
	id, err := vsx.ParseID(name)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := c.newServices(cfg, noCache)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.auditor.Audit(ctx, id)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	reportDegraded(loggerFromContext(ctx), result, s.breakers)
	return result, s, nil
}
