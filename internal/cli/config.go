package cli

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/focusquest/focusquest/internal/app"
	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/usecase"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage focusquest configuration files and settings.`,
		// No RunE: shows subcommand list when called without arguments
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigTemplateCommand())
	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files were loaded and the final merged configuration.
Project settings (.focusquest/config.toml) override global settings
(~/.config/focusquest/config.toml).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ShowConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			// Display loaded files section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			for _, info := range []domain.ConfigInfo{out.GlobalConfig, out.ProjectConfig} {
				if info.Path == "" {
					continue
				}
				if info.Exists {
					_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
				} else {
					_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
				}
			}

			_, _ = fmt.Fprintln(w)

			// Display effective config in TOML format
			_, _ = fmt.Fprintln(w, "[Effective Config]")
			return formatEffectiveConfig(w, out.Effective)
		},
	}
}

// effectiveConfig mirrors the config file layout.
type effectiveConfig struct {
	Store struct {
		Backend      string `toml:"backend"`
		Path         string `toml:"path,omitempty"`
		DSN          string `toml:"dsn,omitempty"`
		RedisAddr    string `toml:"redis_addr"`
		GitRepo      string `toml:"git_repo,omitempty"`
		Namespace    string `toml:"namespace"`
		WriteTimeout string `toml:"write_timeout"`
		RedisDB      int    `toml:"redis_db"`
	} `toml:"store"`
	Progression struct {
		Timezone        string `toml:"timezone"`
		RecheckInterval string `toml:"recheck_interval"`
	} `toml:"progression"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// formatEffectiveConfig formats the effective config in TOML format.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	var out effectiveConfig
	out.Store.Backend = cfg.Store.Backend
	out.Store.Path = cfg.Store.Path
	out.Store.DSN = cfg.Store.DSN
	out.Store.RedisAddr = cfg.Store.RedisAddr
	out.Store.RedisDB = cfg.Store.RedisDB
	out.Store.GitRepo = cfg.Store.GitRepo
	out.Store.Namespace = cfg.Store.Namespace
	out.Store.WriteTimeout = cfg.Store.WriteTimeout.String()
	out.Progression.Timezone = cfg.Progression.Timezone
	out.Progression.RecheckInterval = cfg.Progression.RecheckInterval.String()
	out.Log.Level = cfg.Log.Level

	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Output configuration template",
		Long: `Output a configuration file template to stdout.

The template does not depend on existing configuration files and works
even if they are broken.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), domain.ConfigTemplate)
			return nil
		},
	}
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Backend string
		Global  bool
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate configuration file template",
		Long: `Generate a configuration file template.

By default, creates the project configuration file at .focusquest/config.toml.
With --global, creates the global configuration file at ~/.config/focusquest/config.toml.
With --backend, the template selects that store backend
(json, sqlite, postgres, redis or git).

Error conditions:
- Target file already exists: error
- Unknown backend: error, nothing is written`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitConfigInput{
				Backend: opts.Backend,
				Global:  opts.Global,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Created config file: %s\n", out.Path)
			if out.Backend != domain.DefaultBackend {
				_, _ = fmt.Fprintf(w, "Store backend: %s\n", out.Backend)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Global, "global", false, "Generate global configuration")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "Store backend to select in the template")

	return cmd
}
