package cmd

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adeokamate/smart-sytem/internal/signing"
)

func newSigningCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signing",
		Short: "Signing identity helpers",
	}

	cmd.AddCommand(newSigningKeygenCmd())

	return cmd
}

func newSigningKeygenCmd() *cobra.Command {
	var (
		dir          string
		name         string
		commonName   string
		organization string
		validityDays int
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create a self-signed signing certificate and print its fingerprints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := mergedOptions(cmd)
			if err != nil {
				return err
			}
			if validityDays < 0 {
				return fmt.Errorf("--validity-days must not be negative")
			}

			files, err := signing.GenerateCertificate(signing.CertOptions{
				Dir:          dir,
				Name:         name,
				CommonName:   commonName,
				Organization: organization,
				Validity:     time.Duration(validityDays) * 24 * time.Hour,
				ConfirmWrite: func(path string) error {
					return confirmWrite(cmd, opts.DangerousInline, path)
				},
			})
			if err != nil {
				return err
			}

			sha1, sha256, err := signing.Fingerprints(files.Cert)
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{"name": name, "cert": files.Cert, "created": files.Created}).Debug("signing certificate ready")

			if files.Created {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote certificate: %s\nWrote key: %s\n", files.Cert, files.Key)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Kept existing certificate: %s\n", files.Cert)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "SHA1: %s\nSHA256: %s\n", sha1, sha256)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory for the certificate and key")
	cmd.Flags().StringVar(&name, "name", "upload", "Signing identity name (file prefix)")
	cmd.Flags().StringVar(&commonName, "cn", "", "Certificate common name (default: the identity name)")
	cmd.Flags().StringVar(&organization, "org", "", "Certificate organization")
	cmd.Flags().IntVar(&validityDays, "validity-days", 0, "Certificate validity in days (default 25 years)")

	return cmd
}
