// Package cli implements the vsxpack command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vsxpack/internal/config"
	"github.com/matzehuels/vsxpack/pkg/buildinfo"
	vsxerrors "github.com/matzehuels/vsxpack/pkg/errors"
	"github.com/matzehuels/vsxpack/pkg/git"
	"github.com/matzehuels/vsxpack/pkg/observability"
)

// defaultRegistrations is the registrations file used when none is given.
const defaultRegistrations = "extensions.json"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives reports and status lines; logs go to Logger.
	Out io.Writer

	// Git clones repositories for new registrations. Nil means the git binary.
	Git git.Cloner

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "vsxpack",
		Short: "vsxpack audits VS Code extension packs against Open VSX",
		Long: `vsxpack checks which members of a VS Code extension pack are missing from
the Open VSX registry, flags deprecated and ineligible ones, and registers the
openly licensed rest in a publishing manifest.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(); err != nil {
				c.Logger.Warn("ignoring .env", "err", err)
			}
			observability.SetAuditHooks(&auditLogHooks{logger: c.Logger})
			if c.Logger.GetLevel() <= log.DebugLevel {
				observability.SetHTTPHooks(&httpLogHooks{logger: c.Logger})
				observability.SetCacheHooks(&cacheLogHooks{logger: c.Logger})
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/vsxpack/config.toml)")

	root.AddCommand(c.addCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return cfg, nil
}

// ErrorLine formats a command failure for stderr. Classified errors keep
// their code so scripts can tell a license conflict from a network failure.
func ErrorLine(err error) string {
	msg := vsxerrors.UserMessage(err)
	if code := vsxerrors.GetCode(err); code != "" {
		return fmt.Sprintf("Error [%s]: %s", code, msg)
	}
	return "Error: " + msg
}
