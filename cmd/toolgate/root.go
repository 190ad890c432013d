package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type cliOptions struct {
	catalogPath string
	jsonOutput  bool
	verbose     bool
	logger      *zap.Logger
	settings    settings
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{
		catalogPath: "catalog.yaml",
		logger:      zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "toolgate",
		Short:         "Lexical tool search gateway for LLM tool catalogs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			applyEnvOverrides(cmd.Flags())
			cfg := zap.NewProductionConfig()
			if opts.verbose {
				cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
			}
			log, err := cfg.Build()
			if err != nil {
				return err
			}
			opts.logger = log
			opts.settings = loadSettings(log)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&opts.catalogPath, "catalog", "c", opts.catalogPath, "path to the tool catalog file (YAML or JSON)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSearchCmd(&opts),
		newToolsCmd(&opts),
		newValidateCmd(&opts),
		newServeCmd(&opts),
		newIngestCmd(&opts),
		newChatCmd(&opts),
	)

	return root
}

// applyEnvOverrides fills flags that were not set on the command line from
// TOOLGATE_* environment variables, e.g. TOOLGATE_CATALOG for --catalog.
func applyEnvOverrides(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		env := "TOOLGATE_" + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if val, ok := os.LookupEnv(env); ok {
			_ = flags.Set(f.Name, val)
		}
	})
}
