package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focusquest/focusquest/internal/app"
	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize focusquest in the current directory",
		Long: `Initialize focusquest for the current project.

This command creates the .focusquest/ directory with:
- logs/: directory for log files
- the configured store (store.json by default)

Running init again on an initialized project is a no-op.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{
				DataDir:     c.Config.DataDir,
				ProjectRoot: c.Config.ProjectRoot,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(w, "focusquest already initialized in %s\n", out.DataDir)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Initialized focusquest in %s\n", out.DataDir)
			if out.GitignoreNeedsAdd {
				_, _ = fmt.Fprintf(w, "Hint: add %s/ to .gitignore\n", domain.DataDirName)
			}
			return nil
		},
	}
}
