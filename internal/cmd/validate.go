package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/adeokamate/smart-sytem/internal/plan"
	"github.com/adeokamate/smart-sytem/internal/resolver"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	fieldStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the build manifest without writing a plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := mergedOptions(cmd)
			if err != nil {
				return err
			}

			p, err := resolveManifest(opts)
			if err != nil {
				var diag resolver.Diagnostic
				if errors.As(err, &diag) {
					writeDiagnostic(cmd.OutOrStdout(), opts.ManifestPath, diag)
				}
				return err
			}

			if err := checkGoogleServices(opts, p); err != nil {
				return err
			}

			writeSummary(cmd.OutOrStdout(), opts.ManifestPath, p)
			return nil
		},
	}

	addInputFlags(cmd)

	return cmd
}

func writeDiagnostic(w io.Writer, path string, diag resolver.Diagnostic) {
	fmt.Fprintf(w, "%s %s\n", failStyle.Render("invalid"), path)
	fmt.Fprintf(w, "  %s %s\n", fieldStyle.Render(diag.Field()), detailStyle.Render(fmt.Sprintf("(value %q)", diag.Value())))
	fmt.Fprintf(w, "  %s\n", diag.Error())
}

func writeSummary(w io.Writer, path string, p *plan.Plan) {
	variants := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		signedBy := "unsigned"
		if v.Signing != nil {
			signedBy = v.Signing.Name
		}
		variants = append(variants, v.Name+" ("+signedBy+")")
	}

	fmt.Fprintf(w, "%s %s\n", okStyle.Render("valid"), path)
	fmt.Fprintf(w, "  %s %s\n", fieldStyle.Render("plan"), p.ID)
	fmt.Fprintf(w, "  %s %s %s\n", fieldStyle.Render("application"), p.ApplicationID, detailStyle.Render(p.Version.Name))
	fmt.Fprintf(w, "  %s compile %d, min %d, target %d\n", fieldStyle.Render("sdk"), p.SDK.Compile, p.SDK.Min, p.SDK.Target)
	if len(variants) > 0 {
		fmt.Fprintf(w, "  %s %s\n", fieldStyle.Render("variants"), strings.Join(variants, ", "))
	}
	fmt.Fprintf(w, "  %s %d\n", fieldStyle.Render("dependencies"), len(p.Dependencies))
}
