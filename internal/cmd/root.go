package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adeokamate/smart-sytem/internal/config"
)

type runtimeOptions struct {
	ConfigPath      string
	ManifestPath    string
	SDKProperties   string
	SigningPath     string
	GoogleServices  string
	OutputDir       string
	DebugKeystore   bool
	Debug           bool
	LogFormat       string
	DangerousInline bool
}

var rootOpts runtimeOptions

func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	showVersion := false

	cmd := &cobra.Command{
		Use:           "buildplan",
		Short:         "Resolve declarative Android build manifests into concrete build plans",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := mergedOptions(cmd)
			if err != nil {
				return err
			}
			return setupLogging(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprint(cmd.OutOrStdout(), formatVersion(buildVersion, buildDate))
				return nil
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&rootOpts.ConfigPath, "config", "f", "", "Path to YAML config file")
	cmd.Flags().BoolVar(&showVersion, "version", false, "Print CLI version")
	cmd.PersistentFlags().BoolVar(&rootOpts.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&rootOpts.LogFormat, "log-format", "text", "Log format: text or json")
	cmd.PersistentFlags().BoolVar(&rootOpts.DangerousInline, "dangerous-inline", false, "Skip write confirmation prompts and perform writes inline")

	cmd.AddCommand(newVersionCmd(buildVersion, buildDate))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newSigningCmd())

	return cmd
}

// addInputFlags registers the flags shared by commands that resolve a
// manifest.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&rootOpts.ManifestPath, "manifest", "m", "", "Path to the build manifest (.yaml, .yml or .json)")
	cmd.Flags().StringVar(&rootOpts.SDKProperties, "sdk-properties", "", "Properties file answering symbolic SDK references")
	cmd.Flags().StringVar(&rootOpts.SigningPath, "signing", "", "Path to the signing registry YAML")
	cmd.Flags().StringVar(&rootOpts.GoogleServices, "google-services", "", "Path to google-services.json")
	cmd.Flags().BoolVar(&rootOpts.DebugKeystore, "debug-keystore", true, "Register the Android debug signing identity")
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&rootOpts.OutputDir, "output", "o", "", "Output directory")
}

func mergedOptions(cmd *cobra.Command) (runtimeOptions, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return runtimeOptions{}, fmt.Errorf("get cwd: %w", err)
	}

	merged := runtimeOptions{
		ConfigPath:    rootOpts.ConfigPath,
		ManifestPath:  filepath.Join(cwd, "buildplan.yaml"),
		OutputDir:     filepath.Join(cwd, "build", "buildplan"),
		DebugKeystore: true,
		LogFormat:     "text",
	}

	if value, ok := getenvTrim("BUILDPLAN_CONFIG"); ok && !cmd.Flags().Changed("config") {
		merged.ConfigPath = value
	}

	if merged.ConfigPath != "" {
		fileCfg, err := config.Load(merged.ConfigPath)
		if err != nil {
			return runtimeOptions{}, err
		}

		if fileCfg.Manifest != "" {
			merged.ManifestPath = fileCfg.Manifest
		}
		if fileCfg.SDKProperties != "" {
			merged.SDKProperties = fileCfg.SDKProperties
		}
		if fileCfg.Signing != "" {
			merged.SigningPath = fileCfg.Signing
		}
		if fileCfg.GoogleServices != "" {
			merged.GoogleServices = fileCfg.GoogleServices
		}
		if fileCfg.Output != "" {
			merged.OutputDir = fileCfg.Output
		}
		if fileCfg.DebugKeystore != nil {
			merged.DebugKeystore = *fileCfg.DebugKeystore
		}
		if fileCfg.Debug != nil {
			merged.Debug = *fileCfg.Debug
		}
		if fileCfg.LogFormat != "" {
			merged.LogFormat = fileCfg.LogFormat
		}
	}

	if err := applyEnvOverrides(&merged); err != nil {
		return runtimeOptions{}, err
	}

	if cmd.Flags().Changed("manifest") {
		merged.ManifestPath = rootOpts.ManifestPath
	}
	if cmd.Flags().Changed("sdk-properties") {
		merged.SDKProperties = rootOpts.SDKProperties
	}
	if cmd.Flags().Changed("signing") {
		merged.SigningPath = rootOpts.SigningPath
	}
	if cmd.Flags().Changed("google-services") {
		merged.GoogleServices = rootOpts.GoogleServices
	}
	if cmd.Flags().Changed("output") {
		merged.OutputDir = rootOpts.OutputDir
	}
	if cmd.Flags().Changed("debug-keystore") {
		merged.DebugKeystore = rootOpts.DebugKeystore
	}
	if cmd.Flags().Changed("debug") {
		merged.Debug = rootOpts.Debug
	}
	if cmd.Flags().Changed("log-format") {
		merged.LogFormat = rootOpts.LogFormat
	}
	if cmd.Flags().Changed("dangerous-inline") {
		merged.DangerousInline = rootOpts.DangerousInline
	}

	merged.ManifestPath = strings.TrimSpace(merged.ManifestPath)
	merged.SDKProperties = strings.TrimSpace(merged.SDKProperties)
	merged.SigningPath = strings.TrimSpace(merged.SigningPath)
	merged.GoogleServices = strings.TrimSpace(merged.GoogleServices)
	merged.OutputDir = strings.TrimSpace(merged.OutputDir)
	merged.LogFormat = strings.ToLower(strings.TrimSpace(merged.LogFormat))

	if merged.LogFormat == "" {
		merged.LogFormat = "text"
	}

	return merged, nil
}

func applyEnvOverrides(opts *runtimeOptions) error {
	if value, ok := getenvTrim("BUILDPLAN_MANIFEST"); ok {
		opts.ManifestPath = value
	}
	if value, ok := getenvTrim("BUILDPLAN_SDK_PROPERTIES"); ok {
		opts.SDKProperties = value
	}
	if value, ok := getenvTrim("BUILDPLAN_SIGNING"); ok {
		opts.SigningPath = value
	}
	if value, ok := getenvTrim("BUILDPLAN_GOOGLE_SERVICES"); ok {
		opts.GoogleServices = value
	}
	if value, ok := getenvTrim("BUILDPLAN_OUTPUT"); ok {
		opts.OutputDir = value
	}
	if value, ok := getenvTrim("BUILDPLAN_LOG_FORMAT"); ok {
		opts.LogFormat = value
	}

	if value, ok := getenvTrim("BUILDPLAN_DEBUG_KEYSTORE"); ok {
		parsed, err := parseBoolEnv("BUILDPLAN_DEBUG_KEYSTORE", value)
		if err != nil {
			return err
		}
		opts.DebugKeystore = parsed
	}
	if value, ok := getenvTrim("BUILDPLAN_DEBUG"); ok {
		parsed, err := parseBoolEnv("BUILDPLAN_DEBUG", value)
		if err != nil {
			return err
		}
		opts.Debug = parsed
	}
	if value, ok := getenvTrim("BUILDPLAN_DANGEROUS_INLINE"); ok {
		parsed, err := parseBoolEnv("BUILDPLAN_DANGEROUS_INLINE", value)
		if err != nil {
			return err
		}
		opts.DangerousInline = parsed
	}
	return nil
}

func setupLogging(cmd *cobra.Command, opts runtimeOptions) error {
	switch opts.LogFormat {
	case "text":
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unsupported log format %q (want text or json)", opts.LogFormat)
	}

	log.SetOutput(cmd.ErrOrStderr())
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	return nil
}

func getenvTrim(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func parseBoolEnv(name, raw string) (bool, error) {
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s as bool: %w", name, err)
	}
	return parsed, nil
}
