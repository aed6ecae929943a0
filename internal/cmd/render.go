package cmd

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adeokamate/smart-sytem/internal/plan"
	"github.com/adeokamate/smart-sytem/internal/render"
)

func newRenderCmd() *cobra.Command {
	var planPath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render build.gradle.kts from a resolved plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := mergedOptions(cmd)
			if err != nil {
				return err
			}

			source := planPath
			if source == "" {
				source = filepath.Join(opts.OutputDir, planFileName)
			}

			p, err := plan.Read(source)
			if err != nil {
				return err
			}

			target, err := render.Generate(render.Options{
				Plan:      p,
				OutputDir: opts.OutputDir,
				ConfirmWrite: func(path string) error {
					return confirmWrite(cmd, opts.DangerousInline, path)
				},
			})
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{"plan_id": p.ID, "path": target}).Info("rendered gradle script")
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s\n", target)
			return nil
		},
	}

	addOutputFlag(cmd)
	cmd.Flags().StringVar(&planPath, "plan", "", "Path to plan.json (default <output>/plan.json)")

	return cmd
}
