package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

func newVersionCmd(version, buildDate string) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), formatVersion(version, buildDate))
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "go %s %s/%s\n", strings.TrimPrefix(runtime.Version(), "go"), runtime.GOOS, runtime.GOARCH)
			}
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print the Go toolchain and platform")

	return cmd
}

func formatVersion(version, buildDate string) string {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" {
		version = "DEV"
	}

	if strings.TrimSpace(buildDate) != "" {
		return fmt.Sprintf("buildplan version %s (%s)\n", version, strings.TrimSpace(buildDate))
	}

	return fmt.Sprintf("buildplan version %s\n", version)
}
