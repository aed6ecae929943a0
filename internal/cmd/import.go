package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adeokamate/smart-sytem/internal/gradle"
	"github.com/adeokamate/smart-sytem/internal/manifest"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <build.gradle.kts>",
		Short: "Convert a Flutter app build.gradle.kts into a build manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := mergedOptions(cmd)
			if err != nil {
				return err
			}

			m, err := gradle.ParseFile(args[0])
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"script":       args[0],
				"plugins":      len(m.Plugins),
				"variants":     len(m.Variants),
				"dependencies": len(m.Dependencies),
			}).Debug("imported gradle script")
			if m.HasPlugin(manifest.PluginGoogleServices) {
				log.WithField("script", args[0]).Info("script applies google-services; pass --google-services to resolve to check the Firebase client")
			}

			if err := confirmWrite(cmd, opts.DangerousInline, opts.ManifestPath); err != nil {
				return err
			}
			if err := manifest.Write(opts.ManifestPath, m); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\nWrote manifest: %s\n", args[0], opts.ManifestPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootOpts.ManifestPath, "manifest", "m", "", "Path to write the build manifest")

	return cmd
}
