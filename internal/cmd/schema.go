package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adeokamate/smart-sytem/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the build manifest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := schema.Manifest()
			if err != nil {
				return err
			}

			target := strings.TrimSpace(filePath)
			if target == "" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}

			opts, err := mergedOptions(cmd)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create schema directory: %w", err)
			}
			if err := confirmWrite(cmd, opts.DangerousInline, target); err != nil {
				return err
			}
			if err := os.WriteFile(target, out, 0o644); err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote schema: %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Write the schema to a file instead of stdout")

	return cmd
}
