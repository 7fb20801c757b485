// Command setup-builder attaches an MSI package to a setup bootstrapper
// stub, and reads it back out of a built bootstrapper.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/devicehive/setup/pkg/logging"
	"github.com/devicehive/setup/pkg/payload"
)

const version = "0.1.0"

var (
	manifestPath string
	stubPath     string
	packagePath  string
	outputPath   string
	modeName     string
	codecName    string
	checksum     string
	logLevel     string
	versionFlag  bool
)

func getBuilderTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "setup-builder %s\n", version)
	fmt.Fprintf(w, "Built: %s\n", getBuilderTimestamp())
}

func newLogger() (hclog.Logger, func() error) {
	return logging.Open("setup-builder", logLevel)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "setup-builder",
		Short:         "Build setup bootstrappers",
		Long:          `Attach an installer package to a setup bootstrapper stub, or inspect a built one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	rootCmd.AddCommand(newBuildCmd(), newInspectCmd(), newExtractCmd())
	return rootCmd
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Attach an MSI package to a bootstrapper stub",
		Args:  cobra.NoArgs,
		RunE:  runBuild,
	}
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Path to setup.yaml")
	cmd.Flags().StringVar(&stubPath, "stub", "", "Path to the setup stub executable")
	cmd.Flags().StringVarP(&packagePath, "package", "p", "", "Path to the MSI package")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path for the bootstrapper")
	cmd.Flags().StringVar(&modeName, "mode", "", "Embedding mode (auto, resource, append)")
	cmd.Flags().StringVar(&codecName, "codec", "", "Envelope codec ("+strings.Join(payload.CodecNames(), ", ")+")")
	cmd.Flags().StringVar(&checksum, "checksum", "", "Expected package checksum (sha256:<hex> or sha512:<hex>)")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger, closeLog := newLogger()
	defer closeLog()

	m := &Manifest{}
	if manifestPath != "" {
		loaded, err := LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		m = loaded
	}
	m.Merge(Manifest{
		Stub:     stubPath,
		Package:  packagePath,
		Output:   outputPath,
		Mode:     modeName,
		Codec:    codecName,
		Checksum: checksum,
	})

	opts, err := m.Options()
	if err != nil {
		return err
	}

	logger.Info("Building bootstrapper", "stub", opts.StubPath, "package", opts.PackagePath, "mode", opts.Mode)
	if err := payload.Embed(opts, logger); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Built %s\n", opts.OutputPath)
	return nil
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the installer package carried by a bootstrapper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog := newLogger()
			defer closeLog()

			p, err := payload.Open(args[0], logger)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "File:     %s\n", args[0])
			fmt.Fprintf(w, "Origin:   %s\n", p.Origin)
			fmt.Fprintf(w, "Size:     %d bytes\n", p.Size())
			if p.Origin == payload.OriginEnvelope {
				fmt.Fprintf(w, "Codec:    %s (%d bytes encoded)\n", p.Codec, p.EncodedSize)
			}
			fmt.Fprintf(w, "Checksum: %s\n", p.Checksum())
			return nil
		},
	}
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file> <out>",
		Short: "Write the installer package of a bootstrapper to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog := newLogger()
			defer closeLog()

			p, err := payload.Open(args[0], logger)
			if err != nil {
				return err
			}
			if err := p.WriteFile(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Extracted %d bytes to %s\n", p.Size(), args[1])
			return nil
		},
	}
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion(os.Stdout)
		os.Exit(0)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
