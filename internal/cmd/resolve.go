package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adeokamate/smart-sytem/internal/firebase"
	"github.com/adeokamate/smart-sytem/internal/manifest"
	"github.com/adeokamate/smart-sytem/internal/plan"
	"github.com/adeokamate/smart-sytem/internal/resolver"
	"github.com/adeokamate/smart-sytem/internal/sdkinfo"
	"github.com/adeokamate/smart-sytem/internal/signing"
)

const planFileName = "plan.json"

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the build manifest and write plan.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := mergedOptions(cmd)
			if err != nil {
				return err
			}

			p, err := resolveManifest(opts)
			if err != nil {
				return err
			}

			if err := checkGoogleServices(opts, p); err != nil {
				return err
			}

			target := filepath.Join(opts.OutputDir, planFileName)
			if err := confirmWrite(cmd, opts.DangerousInline, target); err != nil {
				return err
			}
			if err := plan.Write(target, p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Resolved %s\nWrote plan: %s\n", opts.ManifestPath, target)
			return nil
		},
	}

	addInputFlags(cmd)
	addOutputFlag(cmd)

	return cmd
}

// resolveManifest loads every input named by opts and runs the resolver.
func resolveManifest(opts runtimeOptions) (*plan.Plan, error) {
	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	sdk, err := sdkProviders(opts)
	if err != nil {
		return nil, err
	}

	reg, err := signingRegistry(opts)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"manifest": opts.ManifestPath,
		"plugins":  len(m.Plugins),
		"signing":  reg.Names(),
	}).Debug("resolving manifest")

	p, err := resolver.Resolve(m, sdk, reg)
	if err != nil {
		var diag resolver.Diagnostic
		if errors.As(err, &diag) {
			log.WithFields(log.Fields{
				"manifest": opts.ManifestPath,
				"field":    diag.Field(),
				"value":    diag.Value(),
			}).Debug("manifest rejected")
		}
		return nil, err
	}

	variants := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, v.Name)
	}
	log.WithFields(log.Fields{
		"manifest": opts.ManifestPath,
		"plan_id":  p.ID,
		"variants": variants,
	}).Info("resolved build plan")

	return p, nil
}

// sdkProviders consults the properties file first, then the Flutter plugin
// defaults, then the android.<codename> table.
func sdkProviders(opts runtimeOptions) (sdkinfo.Chain, error) {
	var chain sdkinfo.Chain
	if opts.SDKProperties != "" {
		props, err := sdkinfo.LoadProperties(opts.SDKProperties)
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"path": opts.SDKProperties, "keys": len(props)}).Debug("loaded sdk properties")
		chain = append(chain, props)
	}
	return append(chain, sdkinfo.FlutterDefaults(), sdkinfo.APILevels()), nil
}

func signingRegistry(opts runtimeOptions) (*signing.Registry, error) {
	var (
		reg *signing.Registry
		err error
	)
	if opts.SigningPath != "" {
		reg, err = signing.Load(opts.SigningPath)
	} else {
		reg, err = signing.New()
	}
	if err != nil {
		return nil, err
	}

	if opts.DebugKeystore {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate debug keystore: %w", err)
		}
		reg = reg.WithDebug(home)
	}
	return reg, nil
}

// checkGoogleServices fails when the plan applies the Google Services plugin
// but google-services.json has no client for the application id. A missing
// file is only logged: the Gradle plugin reports it at build time.
func checkGoogleServices(opts runtimeOptions, p *plan.Plan) error {
	if !p.HasPlugin(manifest.PluginGoogleServices) || opts.GoogleServices == "" {
		return nil
	}
	if _, err := os.Stat(opts.GoogleServices); os.IsNotExist(err) {
		log.WithField("path", opts.GoogleServices).Debug("google-services.json not found, skipping check")
		return nil
	}

	services, err := firebase.Load(opts.GoogleServices)
	if err != nil {
		return err
	}
	client, err := services.Client(p.ApplicationID)
	if err != nil {
		return err
	}

	for _, v := range p.Variants {
		if v.Signing == nil || v.Signing.SHA1 == "" {
			continue
		}
		if !client.HasCertificate(v.Signing.SHA1) {
			log.WithFields(log.Fields{
				"variant": v.Name,
				"signing": v.Signing.Name,
				"sha1":    v.Signing.SHA1,
				"project": services.ProjectInfo.ProjectID,
			}).Warn("signing certificate is not registered with Firebase")
		}
	}
	return nil
}
